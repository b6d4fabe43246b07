package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vena/internal/models"
	"vena/internal/services"
)

// PublicHandler serves the unauthenticated booking site and the client portal.
type PublicHandler struct {
	Catalog       *services.CatalogService
	Conversion    *services.ConversionService
	Clients       *services.ClientService
	MaxProofBytes int64
}

func NewPublicHandler(catalog *services.CatalogService, conversion *services.ConversionService, clients *services.ClientService, maxProofBytes int64) *PublicHandler {
	if maxProofBytes <= 0 {
		maxProofBytes = defaultMaxProofBytes
	}
	return &PublicHandler{Catalog: catalog, Conversion: conversion, Clients: clients, MaxProofBytes: maxProofBytes}
}

// @Summary      Public catalog
// @Tags         Public
// @Produce      json
// @Success      200  {object}  services.Catalog
// @Router       /public/catalog [get]
func (h *PublicHandler) GetCatalog(c *gin.Context) {
	catalog, err := h.Catalog.Catalog(c.Request.Context())
	if err != nil {
		writeError(c, "public][catalog", err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// @Summary      Price preview
// @Description  Live total for a package, add-ons and promo code. Nothing is stored.
// @Tags         Public
// @Accept       json
// @Produce      json
// @Param        body  body      services.PreviewRequest  true  "Selection"
// @Success      200   {object}  pricing.Breakdown
// @Failure      400   {object}  map[string]string
// @Router       /public/pricing/preview [post]
func (h *PublicHandler) Preview(c *gin.Context) {
	var req services.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.Catalog.Preview(c.Request.Context(), req)
	if err != nil {
		writeError(c, "public][preview", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Submit a booking
// @Description  JSON body, or multipart with a "booking" JSON field and an optional "deposit_proof" file.
// @Tags         Public
// @Accept       json,mpfd
// @Produce      json
// @Param        booking        body      models.BookingForm  true   "Booking"
// @Param        deposit_proof  formData  file                false  "Transfer proof (image or PDF)"
// @Success      201  {object}  services.ConversionResult
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /public/bookings [post]
func (h *PublicHandler) SubmitBooking(c *gin.Context) {
	var form models.BookingForm
	if err := bindBooking(c, &form, &form, h.MaxProofBytes); err != nil {
		writeError(c, "public][booking", err)
		return
	}
	res, err := h.Conversion.SubmitPublicBooking(c.Request.Context(), form)
	if err != nil {
		writeError(c, "public][booking", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Client portal
// @Description  Read-only view of a client's projects, addressed by portal token.
// @Tags         Public
// @Produce      json
// @Param        token  path      string  true  "Portal token"
// @Success      200    {object}  services.PortalView
// @Failure      404    {object}  map[string]string
// @Router       /public/portal/{token} [get]
func (h *PublicHandler) Portal(c *gin.Context) {
	view, err := h.Clients.Portal(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, "public][portal", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
