package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vena/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// @Summary      Dashboard statistics
// @Tags         Reports
// @Produce      json
// @Param        year  query     int  false  "Calendar year, defaults to the current one"
// @Success      200   {object}  reports.Dashboard
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	year := queryInt(c, "year", 0)
	if year < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	d, err := h.Service.Dashboard(c.Request.Context(), year)
	if err != nil {
		writeError(c, "report][dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}
