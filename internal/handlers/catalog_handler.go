package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vena/internal/models"
	"vena/internal/services"
)

type CatalogHandler struct {
	Service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

// @Summary      List packages
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}  models.Package
// @Security     BearerAuth
// @Router       /packages [get]
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	pkgs, err := h.Service.ListPackages(c.Request.Context())
	if err != nil {
		writeError(c, "catalog][packages", err)
		return
	}
	c.JSON(http.StatusOK, pkgs)
}

// @Summary      Get package
// @Tags         Catalog
// @Produce      json
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  models.Package
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /packages/{id} [get]
func (h *CatalogHandler) GetPackage(c *gin.Context) {
	p, err := h.Service.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "catalog][package", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Create package
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        package  body      models.Package  true  "Package"
// @Success      201      {object}  models.Package
// @Security     BearerAuth
// @Router       /packages [post]
func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	var p models.Package
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}
	p.ID = ""
	if err := h.Service.CreatePackage(c.Request.Context(), &p); err != nil {
		writeError(c, "catalog][package", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Update package
// @Description  Already booked projects keep their snapshot.
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id       path      string          true  "Package ID"
// @Param        package  body      models.Package  true  "Package"
// @Success      200      {object}  models.Package
// @Security     BearerAuth
// @Router       /packages/{id} [put]
func (h *CatalogHandler) UpdatePackage(c *gin.Context) {
	var p models.Package
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}
	p.ID = c.Param("id")
	if err := h.Service.UpdatePackage(c.Request.Context(), &p); err != nil {
		writeError(c, "catalog][package", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      List add-ons
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}  models.AddOn
// @Security     BearerAuth
// @Router       /add-ons [get]
func (h *CatalogHandler) ListAddOns(c *gin.Context) {
	addOns, err := h.Service.ListAddOns(c.Request.Context())
	if err != nil {
		writeError(c, "catalog][addons", err)
		return
	}
	c.JSON(http.StatusOK, addOns)
}

// @Summary      Create add-on
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        addon  body      models.AddOn  true  "Add-on"
// @Success      201    {object}  models.AddOn
// @Security     BearerAuth
// @Router       /add-ons [post]
func (h *CatalogHandler) CreateAddOn(c *gin.Context) {
	var a models.AddOn
	if err := c.ShouldBindJSON(&a); err != nil {
		bindError(c, err)
		return
	}
	a.ID = ""
	if err := h.Service.CreateAddOn(c.Request.Context(), &a); err != nil {
		writeError(c, "catalog][addon", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary      List promo codes
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}  models.PromoCode
// @Security     BearerAuth
// @Router       /promo-codes [get]
func (h *CatalogHandler) ListPromos(c *gin.Context) {
	promos, err := h.Service.ListPromos(c.Request.Context())
	if err != nil {
		writeError(c, "catalog][promos", err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

// @Summary      Create promo code
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        promo  body      models.PromoCode  true  "Promo code"
// @Success      201    {object}  models.PromoCode
// @Failure      409    {object}  map[string]string
// @Security     BearerAuth
// @Router       /promo-codes [post]
func (h *CatalogHandler) CreatePromo(c *gin.Context) {
	var p models.PromoCode
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}
	p.ID = ""
	if err := h.Service.CreatePromo(c.Request.Context(), &p); err != nil {
		writeError(c, "catalog][promo", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Update promo code
// @Description  The usage count is kept as stored.
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id     path      string            true  "Promo code ID"
// @Param        promo  body      models.PromoCode  true  "Promo code"
// @Success      200    {object}  models.PromoCode
// @Security     BearerAuth
// @Router       /promo-codes/{id} [put]
func (h *CatalogHandler) UpdatePromo(c *gin.Context) {
	var p models.PromoCode
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}
	p.ID = c.Param("id")
	updated, err := h.Service.UpdatePromo(c.Request.Context(), &p)
	if err != nil {
		writeError(c, "catalog][promo", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Price preview
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        body  body      services.PreviewRequest  true  "Selection"
// @Success      200   {object}  pricing.Breakdown
// @Security     BearerAuth
// @Router       /pricing/preview [post]
func (h *CatalogHandler) Preview(c *gin.Context) {
	var req services.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	b, err := h.Service.Preview(c.Request.Context(), req)
	if err != nil {
		writeError(c, "catalog][preview", err)
		return
	}
	c.JSON(http.StatusOK, b)
}
