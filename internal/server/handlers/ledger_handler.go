package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/service/ledger"
)

// MovementReader lists the movement history; the memory and mongodb stores
// both satisfy it.
type MovementReader interface {
	ListMovements(ctx context.Context, household string) ([]models.Movement, error)
}

// LedgerHandler exposes stock movements over HTTP: purchase commits,
// consumptions, adjustments, reversals and the history itself.
type LedgerHandler struct {
	svc       *ledger.Service
	movements MovementReader
	logger    *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(svc *ledger.Service, movements MovementReader, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, movements: movements, logger: logger}
}

type purchaseRequest struct {
	Location  string     `json:"location"`
	Timestamp *time.Time `json:"timestamp"`
}

// CommitPurchase turns the staged cart into stock, atomically.
func (h *LedgerHandler) CommitPurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	entry := ledger.PurchaseEntry{Location: req.Location}
	if req.Timestamp != nil {
		entry.Timestamp = *req.Timestamp
	}

	if err := h.svc.RecordPurchase(c.Request.Context(), sessionFrom(c), entry); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusCreated)
}

type consumptionRequest struct {
	SubcategoryID string  `json:"subcategoryId"`
	Quantity      float64 `json:"quantity"`
}

// RecordConsumption registers stock used up.
func (h *LedgerHandler) RecordConsumption(c *gin.Context) {
	var req consumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	err := h.svc.RecordConsumption(c.Request.Context(), sessionFrom(c), ledger.ConsumptionExit{
		SubcategoryID: req.SubcategoryID,
		Quantity:      req.Quantity,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusCreated)
}

type adjustmentRequest struct {
	SubcategoryID string  `json:"subcategoryId"`
	NewStock      float64 `json:"newStock"`
}

// RecordAdjustment sets a counted absolute stock value.
func (h *LedgerHandler) RecordAdjustment(c *gin.Context) {
	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	err := h.svc.RecordAdjustment(c.Request.Context(), sessionFrom(c), ledger.ManualAdjustment{
		SubcategoryID: req.SubcategoryID,
		NewStock:      req.NewStock,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusCreated)
}

// ListMovements returns the household's movement history, newest first.
func (h *LedgerHandler) ListMovements(c *gin.Context) {
	movements, err := h.movements.ListMovements(c.Request.Context(), sessionFrom(c).HouseholdID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// ReverseMovement undoes a recorded movement and deletes it.
func (h *LedgerHandler) ReverseMovement(c *gin.Context) {
	if err := h.svc.ReverseMovement(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SuggestPackageCount returns how many packages to buy to reach the target
// stock. The product is optional; without one the subcategory's own measure
// is assumed with a package of one unit.
func (h *LedgerHandler) SuggestPackageCount(c *gin.Context) {
	count, err := h.svc.SuggestedPackageCount(c.Request.Context(), sessionFrom(c),
		c.Param("id"), c.Query("productId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestedPackageCount": count})
}
