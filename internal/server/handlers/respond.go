package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
	"github.com/mamadbah2/pantry/internal/service/cart"
	"github.com/mamadbah2/pantry/internal/service/catalog"
	"github.com/mamadbah2/pantry/internal/service/ledger"
	"github.com/mamadbah2/pantry/internal/service/units"
)

// respondError maps domain errors onto HTTP status codes. Unclassified
// errors stay opaque to the client and get logged at error level.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrDuplicateMeasure),
		errors.Is(err, catalog.ErrMeasureInUse),
		errors.Is(err, catalog.ErrCategoryInUse),
		errors.Is(err, catalog.ErrSubcategoryInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrDimensionMismatch),
		errors.Is(err, catalog.ErrInvalidMeasure),
		errors.Is(err, catalog.ErrInvalidQuantity),
		errors.Is(err, cart.ErrNegativeValue),
		errors.Is(err, ledger.ErrEmptyCart),
		errors.Is(err, ledger.ErrMissingLocation),
		errors.Is(err, ledger.ErrNonPositiveQuantity),
		errors.Is(err, ledger.ErrNegativeStock),
		errors.Is(err, units.ErrUnknownMeasure):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrTransactionFailed):
		logger.Error("transaction failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transaction failed, retry"})
	default:
		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
