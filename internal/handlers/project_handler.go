package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"vena/internal/models"
	"vena/internal/pdf"
	"vena/internal/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
	Clients *services.ClientService
	Docs    pdf.Generator
}

func NewProjectHandler(service *services.ProjectService, clients *services.ClientService, docs pdf.Generator) *ProjectHandler {
	return &ProjectHandler{Service: service, Clients: clients, Docs: docs}
}

type bookingStatusRequest struct {
	Status models.BookingStatus `json:"status" binding:"required"`
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// @Summary      List projects
// @Tags         Projects
// @Produce      json
// @Success      200  {array}  models.Project
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, "project][list", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// @Summary      Confirmed bookings
// @Tags         Projects
// @Produce      json
// @Success      200  {array}  models.Project
// @Security     BearerAuth
// @Router       /bookings/confirmed [get]
func (h *ProjectHandler) ListConfirmed(c *gin.Context) {
	projects, err := h.Service.ListConfirmedBookings(c.Request.Context())
	if err != nil {
		writeError(c, "project][confirmed", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// @Summary      Get project
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  models.Project
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	p, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "project][get", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Confirm or reject a public booking
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      bookingStatusRequest  true  "Confirmed or Rejected"
// @Success      200   {object}  models.Project
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/booking-status [patch]
func (h *ProjectHandler) UpdateBookingStatus(c *gin.Context) {
	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.UpdateBookingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, "project][booking", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Update progress
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Project ID"
// @Param        body  body      progressRequest  true  "0..100"
// @Success      200   {object}  models.Project
// @Security     BearerAuth
// @Router       /projects/{id}/progress [patch]
func (h *ProjectHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.UpdateProgress(c.Request.Context(), c.Param("id"), *req.Progress)
	if err != nil {
		writeError(c, "project][progress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Record a payment
// @Description  Books an income transaction, credits the card and recomputes the payment status.
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Project ID"
// @Param        body  body      services.PaymentInput  true  "Payment"
// @Success      201   {object}  services.PaymentResult
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /projects/{id}/payments [post]
func (h *ProjectHandler) RecordPayment(c *gin.Context) {
	var in services.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Service.RecordPayment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, "project][payment", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Project transactions
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {array}   models.Transaction
// @Security     BearerAuth
// @Router       /projects/{id}/transactions [get]
func (h *ProjectHandler) Transactions(c *gin.Context) {
	txns, err := h.Service.Transactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "project][transactions", err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

// @Summary      Download invoice
// @Tags         Projects
// @Produce      application/pdf
// @Param        id   path  string  true  "Project ID"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /projects/{id}/invoice [get]
func (h *ProjectHandler) Invoice(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.Service.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, "project][invoice", err)
		return
	}
	client, err := h.Clients.Get(ctx, p.ClientID)
	if err != nil {
		writeError(c, "project][invoice", err)
		return
	}
	path, err := h.Docs.GenerateInvoice(p, client)
	if err != nil {
		writeError(c, "project][invoice", err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
