package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vena/internal/middleware"
	"vena/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Create user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user  body      services.CreateUserRequest  true  "User"
// @Success      201   {object}  models.User
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, "user][create", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      List users
// @Tags         Users
// @Produce      json
// @Success      200  {array}  models.User
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, "user][list", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Current user
// @Tags         Users
// @Produce      json
// @Success      200  {object}  models.User
// @Security     BearerAuth
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, "user][me", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
