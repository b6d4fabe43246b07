package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vena/internal/models"
	"vena/internal/services"
)

type ClientHandler struct {
	Service *services.ClientService
}

type clientRequest struct {
	Name       string              `json:"name" binding:"required"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	WhatsApp   string              `json:"whatsapp"`
	Instagram  string              `json:"instagram"`
	ClientType models.ClientType   `json:"client_type"`
	Status     models.ClientStatus `json:"status"`
}

func (r clientRequest) toModel(id string) *models.Client {
	return &models.Client{
		ID:         id,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		WhatsApp:   r.WhatsApp,
		Instagram:  r.Instagram,
		ClientType: r.ClientType,
		Status:     r.Status,
	}
}

func NewClientHandler(service *services.ClientService) *ClientHandler {
	return &ClientHandler{Service: service}
}

// @Summary      Create client
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        client  body      clientRequest  true  "Client"
// @Success      201     {object}  models.Client
// @Failure      400     {object}  map[string]string
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	client := req.toModel("")
	if err := h.Service.Create(c.Request.Context(), client); err != nil {
		writeError(c, "client][create", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// @Summary      List clients
// @Tags         Clients
// @Produce      json
// @Success      200  {array}  models.Client
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, "client][list", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// @Summary      Get client with projects
// @Tags         Clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  services.PortalView
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	view, err := h.Service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "client][get", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Update client
// @Description  The portal token and join date cannot be changed.
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        id      path      string         true  "Client ID"
// @Param        client  body      clientRequest  true  "Client"
// @Success      200     {object}  models.Client
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	client, err := h.Service.Update(c.Request.Context(), req.toModel(c.Param("id")))
	if err != nil {
		writeError(c, "client][update", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary      Record a contact with the client
// @Tags         Clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  models.Client
// @Security     BearerAuth
// @Router       /clients/{id}/contact [post]
func (h *ClientHandler) Touch(c *gin.Context) {
	client, err := h.Service.TouchLastContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "client][contact", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary      Delete client
// @Description  Also deletes the client's projects and their transactions.
// @Tags         Clients
// @Param        id   path  string  true  "Client ID"
// @Success      204
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "client][delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}
