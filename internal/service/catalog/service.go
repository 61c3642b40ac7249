// Package catalog manages the item taxonomy (categories, subcategories,
// products) and the measure catalog. Plain CRUD plus the referential rules
// the ledger depends on: measures stay resolvable while referenced, and a
// product always shares a physical dimension with its parent subcategory.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
)

var (
	// ErrDuplicateMeasure indicates a (controlType, unitSymbol) collision.
	ErrDuplicateMeasure = errors.New("measure with this unit already exists for the dimension")
	// ErrMeasureInUse blocks deleting a measure still referenced by a
	// subcategory or product.
	ErrMeasureInUse = errors.New("measure is still referenced")
	// ErrCategoryInUse blocks deleting a category that owns subcategories.
	ErrCategoryInUse = errors.New("category still owns subcategories")
	// ErrSubcategoryInUse blocks deleting a subcategory that owns products.
	ErrSubcategoryInUse = errors.New("subcategory still owns products")
	// ErrDimensionMismatch rejects a product whose measure belongs to a
	// different control type than its subcategory's measure.
	ErrDimensionMismatch = errors.New("product and subcategory measures differ in dimension")
	// ErrInvalidMeasure rejects a measure with a bad control type, empty
	// symbol or non-positive multiplier.
	ErrInvalidMeasure = errors.New("invalid measure")
	// ErrInvalidQuantity rejects non-positive package quantities and
	// negative stock thresholds.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Store is the document-store surface the catalog depends on.
type Store interface {
	InsertMeasure(ctx context.Context, m models.Measure) (models.Measure, error)
	UpdateMeasure(ctx context.Context, m models.Measure) error
	DeleteMeasure(ctx context.Context, household, id string) error
	GetMeasure(ctx context.Context, household, id string) (models.Measure, error)
	ListMeasures(ctx context.Context, household string) ([]models.Measure, error)

	InsertCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) error
	DeleteCategory(ctx context.Context, household, id string) error
	ListCategories(ctx context.Context, household string) ([]models.Category, error)

	InsertSubcategory(ctx context.Context, s models.Subcategory) (models.Subcategory, error)
	UpdateSubcategory(ctx context.Context, s models.Subcategory) error
	DeleteSubcategory(ctx context.Context, household, id string) error
	GetSubcategory(ctx context.Context, household, id string) (models.Subcategory, error)
	ListSubcategories(ctx context.Context, household string) ([]models.Subcategory, error)

	InsertProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, household, id string) error
	GetProduct(ctx context.Context, household, id string) (models.Product, error)
	ListProducts(ctx context.Context, household string) ([]models.Product, error)
}

// Service implements catalog management.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService constructs the catalog service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// MeasureInput carries the user-editable fields of a measure.
type MeasureInput struct {
	ControlType      models.ControlType `json:"controlType"`
	UnitSymbol       string             `json:"unitSymbol"`
	MultiplierToBase float64            `json:"multiplierToBase"`
}

func (in MeasureInput) validate() error {
	if !in.ControlType.Valid() {
		return fmt.Errorf("%w: control type %q", ErrInvalidMeasure, in.ControlType)
	}
	if in.UnitSymbol == "" {
		return fmt.Errorf("%w: empty unit symbol", ErrInvalidMeasure)
	}
	if in.MultiplierToBase <= 0 {
		return fmt.Errorf("%w: multiplier must be positive", ErrInvalidMeasure)
	}
	return nil
}

// CreateMeasure validates uniqueness of (controlType, unitSymbol) within
// the household and stores the measure.
func (s *Service) CreateMeasure(ctx context.Context, sess models.Session, in MeasureInput) (models.Measure, error) {
	if err := sess.Validate(); err != nil {
		return models.Measure{}, err
	}
	if err := in.validate(); err != nil {
		return models.Measure{}, err
	}

	existing, err := s.store.ListMeasures(ctx, sess.HouseholdID)
	if err != nil {
		return models.Measure{}, err
	}
	for _, m := range existing {
		if m.ControlType == in.ControlType && m.UnitSymbol == in.UnitSymbol {
			return models.Measure{}, ErrDuplicateMeasure
		}
	}

	return s.store.InsertMeasure(ctx, models.Measure{
		ControlType:      in.ControlType,
		UnitSymbol:       in.UnitSymbol,
		MultiplierToBase: in.MultiplierToBase,
		UserID:           sess.UserID,
		HouseholdID:      sess.HouseholdID,
	})
}

// UpdateMeasure applies new field values, keeping the uniqueness rule.
func (s *Service) UpdateMeasure(ctx context.Context, sess models.Session, id string, in MeasureInput) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	existing, err := s.store.ListMeasures(ctx, sess.HouseholdID)
	if err != nil {
		return err
	}
	for _, m := range existing {
		if m.ID != id && m.ControlType == in.ControlType && m.UnitSymbol == in.UnitSymbol {
			return ErrDuplicateMeasure
		}
	}

	cur, err := s.store.GetMeasure(ctx, sess.HouseholdID, id)
	if err != nil {
		return err
	}
	cur.ControlType = in.ControlType
	cur.UnitSymbol = in.UnitSymbol
	cur.MultiplierToBase = in.MultiplierToBase
	return s.store.UpdateMeasure(ctx, cur)
}

// DeleteMeasure refuses to delete a measure still referenced by a
// subcategory or product; deleting it would make future conversions fail or
// silently fall back to multiplier 1.
func (s *Service) DeleteMeasure(ctx context.Context, sess models.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	subs, err := s.store.ListSubcategories(ctx, sess.HouseholdID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.MeasureID == id {
			return fmt.Errorf("%w: subcategory %q", ErrMeasureInUse, sub.Name)
		}
	}
	products, err := s.store.ListProducts(ctx, sess.HouseholdID)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.MeasureID == id {
			return fmt.Errorf("%w: product %q", ErrMeasureInUse, p.Name)
		}
	}

	return s.store.DeleteMeasure(ctx, sess.HouseholdID, id)
}

// ListMeasures returns the household's measure catalog.
func (s *Service) ListMeasures(ctx context.Context, sess models.Session) ([]models.Measure, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListMeasures(ctx, sess.HouseholdID)
}
