package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vena/internal/models"
	"vena/internal/services"
)

type LeadHandler struct {
	Service       *services.LeadService
	Conversion    *services.ConversionService
	MaxProofBytes int64
}

func NewLeadHandler(service *services.LeadService, conversion *services.ConversionService, maxProofBytes int64) *LeadHandler {
	if maxProofBytes <= 0 {
		maxProofBytes = defaultMaxProofBytes
	}
	return &LeadHandler{Service: service, Conversion: conversion, MaxProofBytes: maxProofBytes}
}

type leadStatusRequest struct {
	Status models.LeadStatus `json:"status" binding:"required"`
}

// @Summary      Create lead
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        lead  body      models.AddLeadForm  true  "Lead"
// @Success      201   {object}  models.Lead
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var form models.AddLeadForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	lead, err := h.Service.Create(c.Request.Context(), &form)
	if err != nil {
		writeError(c, "lead][create", err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// @Summary      Leave an inquiry
// @Description  Public contact form; the lead starts in Discussion.
// @Tags         Public
// @Accept       json
// @Produce      json
// @Param        lead  body      models.AddLeadForm  true  "Inquiry"
// @Success      201   {object}  models.Lead
// @Failure      400   {object}  map[string]string
// @Router       /public/leads [post]
func (h *LeadHandler) CapturePublic(c *gin.Context) {
	var form models.AddLeadForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	lead, err := h.Service.CapturePublic(c.Request.Context(), &form)
	if err != nil {
		writeError(c, "lead][public", err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// @Summary      List leads
// @Tags         Leads
// @Produce      json
// @Success      200  {array}  models.Lead
// @Security     BearerAuth
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, "lead][list", err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// @Summary      Get lead
// @Tags         Leads
// @Produce      json
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  models.Lead
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	lead, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "lead][get", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Edit lead details
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Lead ID"
// @Param        lead  body      models.EditLeadForm  true  "Lead"
// @Success      200   {object}  models.Lead
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	var form models.EditLeadForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	form.ID = c.Param("id")
	lead, err := h.Service.Update(c.Request.Context(), &form)
	if err != nil {
		writeError(c, "lead][update", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Move lead to another status
// @Description  Discussion, FollowUp or Rejected. Use /convert for Converted.
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Lead ID"
// @Param        body  body      leadStatusRequest  true  "Target status"
// @Success      200   {object}  models.Lead
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	var req leadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	lead, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, "lead][status", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Convert lead
// @Description  Creates the client, project and deposit transaction and marks the lead Converted.
// @Description  JSON body, or multipart with a "booking" JSON field (the booking itself) and an optional "deposit_proof" file.
// @Tags         Leads
// @Accept       json,mpfd
// @Produce      json
// @Param        id             path      string                  true   "Lead ID"
// @Param        body           body      models.ConvertLeadForm  true   "Booking details"
// @Param        deposit_proof  formData  file                    false  "Transfer proof (image or PDF)"
// @Success      201   {object}  services.ConversionResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	var form models.ConvertLeadForm
	if err := bindBooking(c, &form, &form.Booking, h.MaxProofBytes); err != nil {
		writeError(c, "lead][convert", err)
		return
	}
	form.LeadID = c.Param("id")
	res, err := h.Conversion.ConvertLead(c.Request.Context(), form)
	if err != nil {
		writeError(c, "lead][convert", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
