package catalog

import (
	"context"
	"fmt"

	"github.com/mamadbah2/pantry/internal/domain/models"
)

// CreateCategory stores a named category.
func (s *Service) CreateCategory(ctx context.Context, sess models.Session, name string) (models.Category, error) {
	if err := sess.Validate(); err != nil {
		return models.Category{}, err
	}
	if name == "" {
		return models.Category{}, fmt.Errorf("%w: empty category name", ErrInvalidQuantity)
	}
	return s.store.InsertCategory(ctx, models.Category{
		Name:        name,
		UserID:      sess.UserID,
		HouseholdID: sess.HouseholdID,
	})
}

// RenameCategory updates a category's name.
func (s *Service) RenameCategory(ctx context.Context, sess models.Session, id, name string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: empty category name", ErrInvalidQuantity)
	}
	return s.store.UpdateCategory(ctx, models.Category{
		ID:          id,
		Name:        name,
		UserID:      sess.UserID,
		HouseholdID: sess.HouseholdID,
	})
}

// DeleteCategory refuses to delete a category that still owns
// subcategories.
func (s *Service) DeleteCategory(ctx context.Context, sess models.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	subs, err := s.store.ListSubcategories(ctx, sess.HouseholdID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.CategoryID == id {
			return fmt.Errorf("%w: %q", ErrCategoryInUse, sub.Name)
		}
	}
	return s.store.DeleteCategory(ctx, sess.HouseholdID, id)
}

// ListCategories returns the household's categories.
func (s *Service) ListCategories(ctx context.Context, sess models.Session) ([]models.Category, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, sess.HouseholdID)
}

// SubcategoryInput carries the user-editable fields of a subcategory.
// Current stock is accepted only at creation as the opening balance; after
// that it moves exclusively through the ledger.
type SubcategoryInput struct {
	Name         string  `json:"name"`
	CategoryID   string  `json:"categoryId"`
	MeasureID    string  `json:"measureId"`
	MinimumStock float64 `json:"minimumStock"`
	TargetStock  float64 `json:"targetStock"`
	InitialStock float64 `json:"initialStock"`
}

func (in SubcategoryInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: empty subcategory name", ErrInvalidQuantity)
	}
	if in.MinimumStock < 0 || in.TargetStock < 0 || in.InitialStock < 0 {
		return fmt.Errorf("%w: stock thresholds must not be negative", ErrInvalidQuantity)
	}
	return nil
}

// CreateSubcategory stores a stock item, denormalizing the category and
// measure display fields the way the movement history expects them.
func (s *Service) CreateSubcategory(ctx context.Context, sess models.Session, in SubcategoryInput) (models.Subcategory, error) {
	if err := sess.Validate(); err != nil {
		return models.Subcategory{}, err
	}
	if err := in.validate(); err != nil {
		return models.Subcategory{}, err
	}

	measure, err := s.store.GetMeasure(ctx, sess.HouseholdID, in.MeasureID)
	if err != nil {
		return models.Subcategory{}, err
	}
	categoryName, err := s.categoryName(ctx, sess, in.CategoryID)
	if err != nil {
		return models.Subcategory{}, err
	}

	return s.store.InsertSubcategory(ctx, models.Subcategory{
		Name:           in.Name,
		CategoryID:     in.CategoryID,
		CategoryName:   categoryName,
		MeasureID:      measure.ID,
		MeasureControl: measure.ControlType,
		MeasureUnit:    measure.UnitSymbol,
		MinimumStock:   in.MinimumStock,
		TargetStock:    in.TargetStock,
		CurrentStock:   in.InitialStock,
		UserID:         sess.UserID,
		HouseholdID:    sess.HouseholdID,
	})
}

// UpdateSubcategory applies configuration edits. The current stock is
// carried over untouched regardless of the input.
func (s *Service) UpdateSubcategory(ctx context.Context, sess models.Session, id string, in SubcategoryInput) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	cur, err := s.store.GetSubcategory(ctx, sess.HouseholdID, id)
	if err != nil {
		return err
	}
	measure, err := s.store.GetMeasure(ctx, sess.HouseholdID, in.MeasureID)
	if err != nil {
		return err
	}
	categoryName, err := s.categoryName(ctx, sess, in.CategoryID)
	if err != nil {
		return err
	}

	cur.Name = in.Name
	cur.CategoryID = in.CategoryID
	cur.CategoryName = categoryName
	cur.MeasureID = measure.ID
	cur.MeasureControl = measure.ControlType
	cur.MeasureUnit = measure.UnitSymbol
	cur.MinimumStock = in.MinimumStock
	cur.TargetStock = in.TargetStock
	return s.store.UpdateSubcategory(ctx, cur)
}

// DeleteSubcategory refuses to delete an item that still owns products.
func (s *Service) DeleteSubcategory(ctx context.Context, sess models.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	products, err := s.store.ListProducts(ctx, sess.HouseholdID)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.SubcategoryID == id {
			return fmt.Errorf("%w: %q", ErrSubcategoryInUse, p.Name)
		}
	}
	return s.store.DeleteSubcategory(ctx, sess.HouseholdID, id)
}

// ListSubcategories returns the household's stock items.
func (s *Service) ListSubcategories(ctx context.Context, sess models.Session) ([]models.Subcategory, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListSubcategories(ctx, sess.HouseholdID)
}

// ProductInput carries the user-editable fields of a product.
type ProductInput struct {
	Name            string  `json:"name"`
	SubcategoryID   string  `json:"subcategoryId"`
	MeasureID       string  `json:"measureId"`
	PackageQuantity float64 `json:"packageQuantity"`
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: empty product name", ErrInvalidQuantity)
	}
	if in.PackageQuantity <= 0 {
		return fmt.Errorf("%w: package quantity must be positive", ErrInvalidQuantity)
	}
	return nil
}

// CreateProduct stores a purchasable packaging of a subcategory. The
// product's measure must share a control type with the subcategory's
// measure; cross-dimension products are meaningless and rejected.
func (s *Service) CreateProduct(ctx context.Context, sess models.Session, in ProductInput) (models.Product, error) {
	if err := sess.Validate(); err != nil {
		return models.Product{}, err
	}
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	sub, measure, err := s.resolveProductRefs(ctx, sess, in)
	if err != nil {
		return models.Product{}, err
	}

	return s.store.InsertProduct(ctx, models.Product{
		Name:            in.Name,
		CategoryID:      sub.CategoryID,
		CategoryName:    sub.CategoryName,
		SubcategoryID:   sub.ID,
		SubcategoryName: sub.Name,
		PackageQuantity: in.PackageQuantity,
		MeasureID:       measure.ID,
		MeasureControl:  measure.ControlType,
		MeasureUnit:     measure.UnitSymbol,
		UserID:          sess.UserID,
		HouseholdID:     sess.HouseholdID,
	})
}

// UpdateProduct applies edits under the same dimension rule as creation.
// The last unit price is carried over untouched; only the ledger writes it.
func (s *Service) UpdateProduct(ctx context.Context, sess models.Session, id string, in ProductInput) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	cur, err := s.store.GetProduct(ctx, sess.HouseholdID, id)
	if err != nil {
		return err
	}
	sub, measure, err := s.resolveProductRefs(ctx, sess, in)
	if err != nil {
		return err
	}

	cur.Name = in.Name
	cur.CategoryID = sub.CategoryID
	cur.CategoryName = sub.CategoryName
	cur.SubcategoryID = sub.ID
	cur.SubcategoryName = sub.Name
	cur.PackageQuantity = in.PackageQuantity
	cur.MeasureID = measure.ID
	cur.MeasureControl = measure.ControlType
	cur.MeasureUnit = measure.UnitSymbol
	return s.store.UpdateProduct(ctx, cur)
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, sess models.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	return s.store.DeleteProduct(ctx, sess.HouseholdID, id)
}

// ListProducts returns the household's products.
func (s *Service) ListProducts(ctx context.Context, sess models.Session) ([]models.Product, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListProducts(ctx, sess.HouseholdID)
}

func (s *Service) resolveProductRefs(ctx context.Context, sess models.Session, in ProductInput) (models.Subcategory, models.Measure, error) {
	sub, err := s.store.GetSubcategory(ctx, sess.HouseholdID, in.SubcategoryID)
	if err != nil {
		return models.Subcategory{}, models.Measure{}, err
	}
	measure, err := s.store.GetMeasure(ctx, sess.HouseholdID, in.MeasureID)
	if err != nil {
		return models.Subcategory{}, models.Measure{}, err
	}
	subMeasure, err := s.store.GetMeasure(ctx, sess.HouseholdID, sub.MeasureID)
	if err != nil {
		return models.Subcategory{}, models.Measure{}, err
	}
	if measure.ControlType != subMeasure.ControlType {
		return models.Subcategory{}, models.Measure{}, fmt.Errorf("%w: %s vs %s",
			ErrDimensionMismatch, measure.ControlType, subMeasure.ControlType)
	}
	return sub, measure, nil
}

func (s *Service) categoryName(ctx context.Context, sess models.Session, id string) (string, error) {
	categories, err := s.store.ListCategories(ctx, sess.HouseholdID)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == id {
			return c.Name, nil
		}
	}
	return "", nil
}
