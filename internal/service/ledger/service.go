// Package ledger is the transactional core of the pantry. Every stock
// change runs as one atomic store transaction that re-reads the current
// stock, writes the new value and appends an immutable movement record, so
// current stock always equals the sum of surviving movement deltas.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
	"github.com/mamadbah2/pantry/internal/service/units"
)

var (
	// ErrEmptyCart indicates a purchase was submitted with no staged lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingLocation indicates a purchase without a location label.
	ErrMissingLocation = errors.New("purchase location is required")
	// ErrNonPositiveQuantity indicates a consumption of zero or less.
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	// ErrNegativeStock indicates an adjustment to a negative absolute value.
	ErrNegativeStock = errors.New("stock value must not be negative")
)

// PurchaseEntry describes a purchase commit: all staged cart lines of the
// household, bought at one place and time.
type PurchaseEntry struct {
	Timestamp time.Time
	Location  string
}

// Validate rejects the entry before any transaction is attempted.
func (p PurchaseEntry) Validate() error {
	if p.Location == "" {
		return ErrMissingLocation
	}
	return nil
}

// ConsumptionExit describes stock used up, in the subcategory's own unit.
type ConsumptionExit struct {
	SubcategoryID string
	Quantity      float64
}

// Validate rejects the exit before any transaction is attempted.
func (c ConsumptionExit) Validate() error {
	if c.SubcategoryID == "" {
		return fmt.Errorf("consumption: %w", repository.ErrNotFound)
	}
	if c.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	return nil
}

// ManualAdjustment sets a subcategory's stock to a counted absolute value;
// the ledger records the difference as a signed delta.
type ManualAdjustment struct {
	SubcategoryID string
	NewStock      float64
}

// Validate rejects the adjustment before any transaction is attempted.
func (a ManualAdjustment) Validate() error {
	if a.SubcategoryID == "" {
		return fmt.Errorf("adjustment: %w", repository.ErrNotFound)
	}
	if a.NewStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Store is the document-store surface the ledger depends on.
type Store interface {
	RunTransaction(ctx context.Context, household string, fn func(tx repository.Tx) error) error
	GetSubcategory(ctx context.Context, household, id string) (models.Subcategory, error)
	GetProduct(ctx context.Context, household, id string) (models.Product, error)
	ListMeasures(ctx context.Context, household string) ([]models.Measure, error)
}

// Service implements the stock ledger and the reversal engine.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the ledger.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// RecordPurchase commits every staged cart line in one transaction: per
// line the stock delta is applied and an entry movement appended, the
// product's last unit price is refreshed, and the whole cart is cleared.
// Either all lines land or none do.
func (s *Service) RecordPurchase(ctx context.Context, sess models.Session, entry PurchaseEntry) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	err := s.store.RunTransaction(ctx, sess.HouseholdID, func(tx repository.Tx) error {
		lines, err := tx.CartLines()
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		measures, err := tx.Measures()
		if err != nil {
			return err
		}

		// Working stock values, so two lines against the same subcategory
		// accumulate instead of both starting from the pre-transaction read.
		working := map[string]models.Subcategory{}

		for _, line := range lines {
			sub, ok := working[line.SubcategoryID]
			if !ok {
				sub, err = tx.Subcategory(line.SubcategoryID)
				if errors.Is(err, repository.ErrNotFound) {
					// The item was deleted while the line sat in the cart;
					// the line is dropped with the rest of the cart below.
					s.logger.Warn("cart line references missing subcategory",
						zap.String("cart_line", line.ID),
						zap.String("subcategory", line.SubcategoryID))
					continue
				}
				if err != nil {
					return err
				}
			}

			var product *models.Product
			if line.ProductID != "" {
				if p, err := tx.Product(line.ProductID); err == nil {
					product = &p
				}
			}

			delta, display := units.PurchaseDelta(line, product, sub, measures)
			value := line.PackageCount * line.UnitPrice

			mov := models.Movement{
				Kind:            models.KindEntry,
				Origin:          models.OriginPurchase,
				Timestamp:       ts,
				SubcategoryID:   sub.ID,
				SubcategoryName: sub.Name,
				CategoryID:      sub.CategoryID,
				CategoryName:    sub.CategoryName,
				QuantityDelta:   delta,
				DisplayText:     display,
				PurchaseValue:   &value,
				LocationLabel:   entry.Location,
				UserID:          sess.UserID,
				HouseholdID:     sess.HouseholdID,
			}
			if product != nil {
				mov.ProductID = product.ID
				mov.ProductName = product.Name
			}

			sub.CurrentStock += delta
			working[sub.ID] = sub

			tx.Apply(
				repository.SetStock{SubcategoryID: sub.ID, Value: sub.CurrentStock},
				repository.SetShoppingFlag{SubcategoryID: sub.ID, Value: false},
				repository.InsertMovement{Movement: mov},
			)
			if product != nil {
				tx.Apply(repository.SetProductPrice{ProductID: product.ID, UnitPrice: line.UnitPrice})
			}
		}

		for _, line := range lines {
			tx.Apply(repository.DeleteCartLine{CartLineID: line.ID})
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("purchase recorded",
		zap.String("household", sess.HouseholdID),
		zap.String("location", entry.Location),
		zap.Time("timestamp", ts))
	return nil
}

// RecordConsumption removes stock, flooring at zero. The recorded movement
// delta is the amount actually removed, not the requested amount, so the
// stock-equals-sum-of-deltas invariant holds exactly.
func (s *Service) RecordConsumption(ctx context.Context, sess models.Session, exit ConsumptionExit) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if err := exit.Validate(); err != nil {
		return err
	}

	return s.store.RunTransaction(ctx, sess.HouseholdID, func(tx repository.Tx) error {
		sub, err := tx.Subcategory(exit.SubcategoryID)
		if err != nil {
			return err
		}

		removed := exit.Quantity
		if removed > sub.CurrentStock {
			removed = sub.CurrentStock
		}
		if removed == 0 {
			// Already empty; nothing moved, nothing to record.
			return nil
		}

		mov := models.Movement{
			Kind:            models.KindExit,
			Origin:          models.OriginConsumption,
			Timestamp:       s.now(),
			SubcategoryID:   sub.ID,
			SubcategoryName: sub.Name,
			CategoryID:      sub.CategoryID,
			CategoryName:    sub.CategoryName,
			QuantityDelta:   -removed,
			DisplayText:     fmt.Sprintf("-%s %s", units.FormatQuantity(removed), sub.MeasureUnit),
			UserID:          sess.UserID,
			HouseholdID:     sess.HouseholdID,
		}

		tx.Apply(
			repository.SetStock{SubcategoryID: sub.ID, Value: sub.CurrentStock - removed},
			repository.InsertMovement{Movement: mov},
		)
		return nil
	})
}

// RecordAdjustment sets the stock to a counted absolute value and records
// the difference. A zero difference records nothing.
func (s *Service) RecordAdjustment(ctx context.Context, sess models.Session, adj ManualAdjustment) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if err := adj.Validate(); err != nil {
		return err
	}

	return s.store.RunTransaction(ctx, sess.HouseholdID, func(tx repository.Tx) error {
		sub, err := tx.Subcategory(adj.SubcategoryID)
		if err != nil {
			return err
		}

		diff := adj.NewStock - sub.CurrentStock
		if diff == 0 {
			return nil
		}

		display := units.FormatQuantity(diff)
		if diff > 0 {
			display = "+" + display
		}
		display = fmt.Sprintf("%s %s (adjusted to %s %s)",
			display, sub.MeasureUnit, units.FormatQuantity(adj.NewStock), sub.MeasureUnit)

		mov := models.Movement{
			Kind:            models.KindAdjustment,
			Origin:          models.OriginManual,
			Timestamp:       s.now(),
			SubcategoryID:   sub.ID,
			SubcategoryName: sub.Name,
			CategoryID:      sub.CategoryID,
			CategoryName:    sub.CategoryName,
			QuantityDelta:   diff,
			DisplayText:     display,
			UserID:          sess.UserID,
			HouseholdID:     sess.HouseholdID,
		}

		tx.Apply(
			repository.SetStock{SubcategoryID: sub.ID, Value: adj.NewStock},
			repository.InsertMovement{Movement: mov},
		)
		return nil
	})
}

// SuggestedPackageCount computes how many packages of the product close the
// gap between target and current stock, converting through the measure
// catalog. Without a product the gap is counted in packages of one
// subcategory unit.
func (s *Service) SuggestedPackageCount(ctx context.Context, sess models.Session, subcategoryID, productID string) (int, error) {
	if err := sess.Validate(); err != nil {
		return 0, err
	}

	sub, err := s.store.GetSubcategory(ctx, sess.HouseholdID, subcategoryID)
	if err != nil {
		return 0, err
	}
	product := models.Product{
		PackageQuantity: 1,
		MeasureID:       sub.MeasureID,
		MeasureControl:  sub.MeasureControl,
		MeasureUnit:     sub.MeasureUnit,
	}
	if productID != "" {
		product, err = s.store.GetProduct(ctx, sess.HouseholdID, productID)
		if err != nil {
			return 0, err
		}
	}
	measures, err := s.store.ListMeasures(ctx, sess.HouseholdID)
	if err != nil {
		return 0, err
	}

	return units.SuggestedPackageCount(sub, product, measures), nil
}
