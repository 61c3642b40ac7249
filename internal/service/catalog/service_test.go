package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository/memory"
)

var sess = models.Session{UserID: "u1", HouseholdID: "h1"}

func setup(t *testing.T) (*memory.Store, *Service) {
	t.Helper()
	store := memory.New()
	return store, NewService(store, nil)
}

func mustMeasure(t *testing.T, svc *Service, ctrl models.ControlType, symbol string, mult float64) models.Measure {
	t.Helper()
	m, err := svc.CreateMeasure(context.Background(), sess, MeasureInput{
		ControlType: ctrl, UnitSymbol: symbol, MultiplierToBase: mult,
	})
	if err != nil {
		t.Fatalf("CreateMeasure(%s): %v", symbol, err)
	}
	return m
}

func TestCreateMeasureValidation(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   MeasureInput
	}{
		{"bad control type", MeasureInput{ControlType: "length", UnitSymbol: "m", MultiplierToBase: 1}},
		{"empty symbol", MeasureInput{ControlType: models.ControlWeight, MultiplierToBase: 1}},
		{"zero multiplier", MeasureInput{ControlType: models.ControlWeight, UnitSymbol: "kg"}},
		{"negative multiplier", MeasureInput{ControlType: models.ControlWeight, UnitSymbol: "kg", MultiplierToBase: -2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateMeasure(ctx, sess, tc.in); !errors.Is(err, ErrInvalidMeasure) {
				t.Errorf("err = %v, want ErrInvalidMeasure", err)
			}
		})
	}
}

func TestMeasureUniquePerDimension(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	mustMeasure(t, svc, models.ControlWeight, "kg", 1000)

	_, err := svc.CreateMeasure(ctx, sess, MeasureInput{
		ControlType: models.ControlWeight, UnitSymbol: "kg", MultiplierToBase: 1,
	})
	if !errors.Is(err, ErrDuplicateMeasure) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateMeasure", err)
	}

	// Same symbol under another dimension is fine ("un" of count vs volume).
	if _, err := svc.CreateMeasure(ctx, sess, MeasureInput{
		ControlType: models.ControlVolume, UnitSymbol: "kg", MultiplierToBase: 1,
	}); err != nil {
		t.Errorf("other dimension: err = %v, want nil", err)
	}
}

func TestDeleteMeasureBlockedWhileReferenced(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	kg := mustMeasure(t, svc, models.ControlWeight, "kg", 1)
	cat, err := svc.CreateCategory(ctx, sess, "Groceries")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	sub, err := svc.CreateSubcategory(ctx, sess, SubcategoryInput{
		Name: "Rice", CategoryID: cat.ID, MeasureID: kg.ID, TargetStock: 10,
	})
	if err != nil {
		t.Fatalf("CreateSubcategory: %v", err)
	}

	if err := svc.DeleteMeasure(ctx, sess, kg.ID); !errors.Is(err, ErrMeasureInUse) {
		t.Errorf("referenced by subcategory: err = %v, want ErrMeasureInUse", err)
	}

	g := mustMeasure(t, svc, models.ControlWeight, "g", 0.001)
	if _, err := svc.CreateProduct(ctx, sess, ProductInput{
		Name: "Brand X 500g", SubcategoryID: sub.ID, MeasureID: g.ID, PackageQuantity: 500,
	}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := svc.DeleteMeasure(ctx, sess, g.ID); !errors.Is(err, ErrMeasureInUse) {
		t.Errorf("referenced by product: err = %v, want ErrMeasureInUse", err)
	}
}

func TestDeleteUnreferencedMeasure(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	m := mustMeasure(t, svc, models.ControlVolume, "L", 1)
	if err := svc.DeleteMeasure(ctx, sess, m.ID); err != nil {
		t.Errorf("DeleteMeasure: %v", err)
	}
	measures, err := svc.ListMeasures(ctx, sess)
	if err != nil {
		t.Fatalf("ListMeasures: %v", err)
	}
	if len(measures) != 0 {
		t.Errorf("measures = %d, want 0", len(measures))
	}
}

func TestProductDimensionMismatchRejected(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	kg := mustMeasure(t, svc, models.ControlWeight, "kg", 1)
	liter := mustMeasure(t, svc, models.ControlVolume, "L", 1)
	cat, err := svc.CreateCategory(ctx, sess, "Groceries")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	sub, err := svc.CreateSubcategory(ctx, sess, SubcategoryInput{
		Name: "Rice", CategoryID: cat.ID, MeasureID: kg.ID,
	})
	if err != nil {
		t.Fatalf("CreateSubcategory: %v", err)
	}

	_, err = svc.CreateProduct(ctx, sess, ProductInput{
		Name: "Rice Drink 1L", SubcategoryID: sub.ID, MeasureID: liter.ID, PackageQuantity: 1,
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("create: err = %v, want ErrDimensionMismatch", err)
	}

	prod, err := svc.CreateProduct(ctx, sess, ProductInput{
		Name: "Brand X 5kg", SubcategoryID: sub.ID, MeasureID: kg.ID, PackageQuantity: 5,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	err = svc.UpdateProduct(ctx, sess, prod.ID, ProductInput{
		Name: "Brand X 5kg", SubcategoryID: sub.ID, MeasureID: liter.ID, PackageQuantity: 5,
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("update: err = %v, want ErrDimensionMismatch", err)
	}
}

func TestCategoryDeletionBlockedWhileOwningSubcategories(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	kg := mustMeasure(t, svc, models.ControlWeight, "kg", 1)
	cat, err := svc.CreateCategory(ctx, sess, "Groceries")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := svc.CreateSubcategory(ctx, sess, SubcategoryInput{
		Name: "Rice", CategoryID: cat.ID, MeasureID: kg.ID,
	}); err != nil {
		t.Fatalf("CreateSubcategory: %v", err)
	}

	if err := svc.DeleteCategory(ctx, sess, cat.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("err = %v, want ErrCategoryInUse", err)
	}
}

func TestUpdateSubcategoryNeverTouchesCurrentStock(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	kg := mustMeasure(t, svc, models.ControlWeight, "kg", 1)
	cat, err := svc.CreateCategory(ctx, sess, "Groceries")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	sub, err := svc.CreateSubcategory(ctx, sess, SubcategoryInput{
		Name: "Rice", CategoryID: cat.ID, MeasureID: kg.ID, InitialStock: 7, TargetStock: 10,
	})
	if err != nil {
		t.Fatalf("CreateSubcategory: %v", err)
	}

	if err := svc.UpdateSubcategory(ctx, sess, sub.ID, SubcategoryInput{
		Name: "Rice", CategoryID: cat.ID, MeasureID: kg.ID,
		MinimumStock: 2, TargetStock: 12, InitialStock: 999,
	}); err != nil {
		t.Fatalf("UpdateSubcategory: %v", err)
	}

	got, err := store.GetSubcategory(ctx, sess.HouseholdID, sub.ID)
	if err != nil {
		t.Fatalf("GetSubcategory: %v", err)
	}
	if got.CurrentStock != 7 {
		t.Errorf("currentStock = %v, want 7 (config edits never move stock)", got.CurrentStock)
	}
	if got.TargetStock != 12 || got.MinimumStock != 2 {
		t.Errorf("thresholds = {min: %v, target: %v}, want {2, 12}", got.MinimumStock, got.TargetStock)
	}
}
