package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vena/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// @Summary      Latest notifications
// @Tags         Notifications
// @Produce      json
// @Param        limit  query    int  false  "Max items (default 50)"
// @Success      200    {array}  models.Notification
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	list, err := h.Service.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, "notify][list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Mark notification read
// @Tags         Notifications
// @Param        id   path  string  true  "Notification ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "notify][read", err)
		return
	}
	c.Status(http.StatusNoContent)
}
