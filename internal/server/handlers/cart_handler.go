package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/service/cart"
)

// CartHandler exposes the purchase staging area over HTTP.
type CartHandler struct {
	svc    *cart.Service
	logger *zap.Logger
}

// NewCartHandler constructs the HTTP handler adapter.
func NewCartHandler(svc *cart.Service, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{svc: svc, logger: logger}
}

func (h *CartHandler) ListLines(c *gin.Context) {
	lines, err := h.svc.ListLines(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *CartHandler) AddLine(c *gin.Context) {
	var in cart.LineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	line, err := h.svc.AddLine(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *CartHandler) UpdateLine(c *gin.Context) {
	var in cart.LineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	line, err := h.svc.UpdateLine(c.Request.Context(), sessionFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	if err := h.svc.RemoveLine(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), sessionFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type shoppingFlagRequest struct {
	OnShoppingList bool `json:"onShoppingList"`
}

func (h *CartHandler) SetShoppingFlag(c *gin.Context) {
	var req shoppingFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.svc.ToggleShoppingList(c.Request.Context(), sessionFrom(c), c.Param("id"), req.OnShoppingList); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
