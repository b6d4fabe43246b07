package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"vena/internal/models"
	"vena/internal/pdf"
	"vena/internal/services"
)

type FinanceHandler struct {
	Service  *services.FinanceService
	Projects *services.ProjectService
	Docs     pdf.Generator
}

func NewFinanceHandler(service *services.FinanceService, projects *services.ProjectService, docs pdf.Generator) *FinanceHandler {
	return &FinanceHandler{Service: service, Projects: projects, Docs: docs}
}

// @Summary      List cards
// @Tags         Finance
// @Produce      json
// @Success      200  {array}  models.Card
// @Security     BearerAuth
// @Router       /cards [get]
func (h *FinanceHandler) ListCards(c *gin.Context) {
	cards, err := h.Service.ListCards(c.Request.Context())
	if err != nil {
		writeError(c, "finance][cards", err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// @Summary      Create card
// @Tags         Finance
// @Accept       json
// @Produce      json
// @Param        card  body      services.CardInput  true  "Card"
// @Success      201   {object}  models.Card
// @Security     BearerAuth
// @Router       /cards [post]
func (h *FinanceHandler) CreateCard(c *gin.Context) {
	var in services.CardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	card, err := h.Service.CreateCard(c.Request.Context(), in)
	if err != nil {
		writeError(c, "finance][card", err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// @Summary      List transactions
// @Tags         Finance
// @Produce      json
// @Success      200  {array}  models.Transaction
// @Security     BearerAuth
// @Router       /transactions [get]
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	txns, err := h.Service.ListTransactions(c.Request.Context())
	if err != nil {
		writeError(c, "finance][transactions", err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

// @Summary      Create manual transaction
// @Description  Income or expense; the card balance moves with it.
// @Tags         Finance
// @Accept       json
// @Produce      json
// @Param        transaction  body      services.TransactionInput  true  "Transaction"
// @Success      201          {object}  models.Transaction
// @Failure      400          {object}  map[string]string
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var in services.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	txn, err := h.Service.CreateTransaction(c.Request.Context(), in)
	if err != nil {
		writeError(c, "finance][transaction", err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// @Summary      Download receipt
// @Tags         Finance
// @Produce      application/pdf
// @Param        id   path  string  true  "Transaction ID"
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /transactions/{id}/receipt [get]
func (h *FinanceHandler) Receipt(c *gin.Context) {
	ctx := c.Request.Context()
	txn, err := h.Service.GetTransaction(ctx, c.Param("id"))
	if err != nil {
		writeError(c, "finance][receipt", err)
		return
	}
	var project *models.Project
	if txn.ProjectID != "" {
		if project, err = h.Projects.Get(ctx, txn.ProjectID); err != nil {
			writeError(c, "finance][receipt", err)
			return
		}
	}
	path, err := h.Docs.GenerateReceipt(txn, project)
	if err != nil {
		writeError(c, "finance][receipt", err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
