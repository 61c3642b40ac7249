// Package cart manages the staging buffer of purchase-intent lines the
// ledger consumes. CRUD only; the one derived behavior is re-resolving the
// unit and pre-filling the price when a line switches product.
package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

// ErrNegativeValue rejects negative package counts and prices.
var ErrNegativeValue = errors.New("package count and unit price must not be negative")

// genericProductName labels lines without a concrete product.
const genericProductName = "Generic"

// Store is the document-store surface the cart depends on.
type Store interface {
	InsertCartLine(ctx context.Context, l models.CartLine) (models.CartLine, error)
	UpdateCartLine(ctx context.Context, l models.CartLine) error
	DeleteCartLine(ctx context.Context, household, id string) error
	GetCartLine(ctx context.Context, household, id string) (models.CartLine, error)
	ListCartLines(ctx context.Context, household string) ([]models.CartLine, error)
	GetSubcategory(ctx context.Context, household, id string) (models.Subcategory, error)
	GetProduct(ctx context.Context, household, id string) (models.Product, error)
	BatchWrite(ctx context.Context, household string, ops ...repository.WriteOp) error
}

// Service implements the staging area.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService constructs the cart service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// LineInput carries the user-editable fields of a cart line.
type LineInput struct {
	SubcategoryID string  `json:"subcategoryId"`
	ProductID     string  `json:"productId"`
	PackageCount  float64 `json:"packageCount"`
	UnitPrice     float64 `json:"unitPrice"`
}

func (in LineInput) validate() error {
	if in.PackageCount < 0 || in.UnitPrice < 0 {
		return ErrNegativeValue
	}
	return nil
}

// AddLine stages a purchase intent for a subcategory, deriving the display
// unit and suggested price from the chosen product (or the subcategory's
// own unit for a generic line).
func (s *Service) AddLine(ctx context.Context, sess models.Session, in LineInput) (models.CartLine, error) {
	if err := sess.Validate(); err != nil {
		return models.CartLine{}, err
	}
	if err := in.validate(); err != nil {
		return models.CartLine{}, err
	}

	sub, err := s.store.GetSubcategory(ctx, sess.HouseholdID, in.SubcategoryID)
	if err != nil {
		return models.CartLine{}, err
	}

	line := models.CartLine{
		SubcategoryID:   sub.ID,
		SubcategoryName: sub.Name,
		PackageCount:    in.PackageCount,
		UnitPrice:       in.UnitPrice,
		UserID:          sess.UserID,
		HouseholdID:     sess.HouseholdID,
	}
	if err := s.deriveProductFields(ctx, sess, &line, in.ProductID, sub); err != nil {
		return models.CartLine{}, err
	}
	if in.UnitPrice > 0 {
		line.UnitPrice = in.UnitPrice
	}

	return s.store.InsertCartLine(ctx, line)
}

// UpdateLine edits a staged line. Switching product re-derives the unit and
// pre-fills the price from the product's last recorded unit price;
// switching back to generic falls back to the subcategory's own unit.
func (s *Service) UpdateLine(ctx context.Context, sess models.Session, id string, in LineInput) (models.CartLine, error) {
	if err := sess.Validate(); err != nil {
		return models.CartLine{}, err
	}
	if err := in.validate(); err != nil {
		return models.CartLine{}, err
	}

	line, err := s.store.GetCartLine(ctx, sess.HouseholdID, id)
	if err != nil {
		return models.CartLine{}, err
	}
	sub, err := s.store.GetSubcategory(ctx, sess.HouseholdID, line.SubcategoryID)
	if err != nil {
		return models.CartLine{}, err
	}

	line.PackageCount = in.PackageCount
	line.UnitPrice = in.UnitPrice

	if in.ProductID != line.ProductID {
		if err := s.deriveProductFields(ctx, sess, &line, in.ProductID, sub); err != nil {
			return models.CartLine{}, err
		}
	}

	if err := s.store.UpdateCartLine(ctx, line); err != nil {
		return models.CartLine{}, err
	}
	return line, nil
}

// RemoveLine deletes a single staged line.
func (s *Service) RemoveLine(ctx context.Context, sess models.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return s.store.DeleteCartLine(ctx, sess.HouseholdID, id)
}

// ListLines returns the household's staged lines.
func (s *Service) ListLines(ctx context.Context, sess models.Session) ([]models.CartLine, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListCartLines(ctx, sess.HouseholdID)
}

// Clear drops every staged line of the household in one batch.
func (s *Service) Clear(ctx context.Context, sess models.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	lines, err := s.store.ListCartLines(ctx, sess.HouseholdID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	ops := make([]repository.WriteOp, 0, len(lines))
	for _, line := range lines {
		ops = append(ops, repository.DeleteCartLine{CartLineID: line.ID})
	}
	return s.store.BatchWrite(ctx, sess.HouseholdID, ops...)
}

// ToggleShoppingList flags or unflags a subcategory on the shopping list.
func (s *Service) ToggleShoppingList(ctx context.Context, sess models.Session, subcategoryID string, on bool) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetSubcategory(ctx, sess.HouseholdID, subcategoryID); err != nil {
		return err
	}
	return s.store.BatchWrite(ctx, sess.HouseholdID,
		repository.SetShoppingFlag{SubcategoryID: subcategoryID, Value: on})
}

func (s *Service) deriveProductFields(ctx context.Context, sess models.Session, line *models.CartLine, productID string, sub models.Subcategory) error {
	if productID == "" {
		line.ProductID = ""
		line.ProductName = genericProductName
		line.Unit = sub.MeasureUnit
		return nil
	}

	product, err := s.store.GetProduct(ctx, sess.HouseholdID, productID)
	if err != nil {
		return fmt.Errorf("resolve cart product: %w", err)
	}
	line.ProductID = product.ID
	line.ProductName = product.Name
	line.Unit = product.MeasureUnit
	if product.LastUnitPrice != nil {
		line.UnitPrice = *product.LastUnitPrice
	}
	return nil
}
