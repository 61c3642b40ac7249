package units

import (
	"math"
	"testing"

	"github.com/mamadbah2/pantry/internal/domain/models"
)

func measure(id string, ctrl models.ControlType, symbol string, mult float64) models.Measure {
	return models.Measure{ID: id, ControlType: ctrl, UnitSymbol: symbol, MultiplierToBase: mult}
}

func TestToBaseRoundTrip(t *testing.T) {
	cases := []struct {
		mult float64
		qty  float64
	}{
		{1, 5},
		{1000, 2.5},
		{0.001, 42},
		{12, 0.75},
	}
	for _, tc := range cases {
		m := measure("m", models.ControlWeight, "u", tc.mult)
		got := ToBase(tc.qty, m) / m.MultiplierToBase
		if math.Abs(got-tc.qty) > 1e-9 {
			t.Errorf("round trip with multiplier %v: got %v, want %v", tc.mult, got, tc.qty)
		}
	}
}

func TestPurchaseDeltaWithProduct(t *testing.T) {
	sub := models.Subcategory{ID: "s", MeasureUnit: "kg"}
	prod := models.Product{ID: "p", Name: "Brand X", PackageQuantity: 5}
	line := models.CartLine{SubcategoryID: "s", ProductID: "p", PackageCount: 2}

	delta, display := PurchaseDelta(line, &prod, sub, nil)
	if delta != 10 {
		t.Errorf("delta = %v, want 10", delta)
	}
	if display != "+2 pkg of Brand X" {
		t.Errorf("display = %q", display)
	}
}

func TestPurchaseDeltaGeneric(t *testing.T) {
	measures := []models.Measure{
		measure("g", models.ControlWeight, "g", 1),
		measure("kg", models.ControlWeight, "kg", 1000),
	}
	sub := models.Subcategory{ID: "s", MeasureID: "g", MeasureUnit: "g"}
	line := models.CartLine{SubcategoryID: "s", PackageCount: 2, Unit: "kg"}

	delta, display := PurchaseDelta(line, nil, sub, measures)
	if delta != 2000 {
		t.Errorf("delta = %v, want 2000", delta)
	}
	if display != "+2 kg" {
		t.Errorf("display = %q", display)
	}
}

func TestPurchaseDeltaGenericUnknownUnitFallsOpen(t *testing.T) {
	sub := models.Subcategory{ID: "s", MeasureUnit: "un"}
	line := models.CartLine{SubcategoryID: "s", PackageCount: 3, Unit: "mystery"}

	delta, _ := PurchaseDelta(line, nil, sub, nil)
	if delta != 3 {
		t.Errorf("delta = %v, want 3 (multiplier 1 fallback)", delta)
	}
}

func TestPurchaseDeltaGenericDefaultsToSubcategoryUnit(t *testing.T) {
	measures := []models.Measure{measure("L", models.ControlVolume, "L", 1)}
	sub := models.Subcategory{ID: "s", MeasureID: "L", MeasureUnit: "L"}
	line := models.CartLine{SubcategoryID: "s", PackageCount: 4}

	delta, display := PurchaseDelta(line, nil, sub, measures)
	if delta != 4 {
		t.Errorf("delta = %v, want 4", delta)
	}
	if display != "+4 L" {
		t.Errorf("display = %q", display)
	}
}

func TestSuggestedPackageCount(t *testing.T) {
	sameUnit := []models.Measure{measure("kg", models.ControlWeight, "kg", 1)}
	mixed := []models.Measure{
		measure("g", models.ControlWeight, "g", 1),
		measure("kg", models.ControlWeight, "kg", 1000),
	}
	crossDim := []models.Measure{
		measure("kg", models.ControlWeight, "kg", 1),
		measure("L", models.ControlVolume, "L", 1),
	}

	cases := []struct {
		name     string
		sub      models.Subcategory
		product  models.Product
		measures []models.Measure
		want     int
	}{
		{
			name:     "gap of six covered by 2.5 packages",
			sub:      models.Subcategory{MeasureID: "kg", TargetStock: 10, CurrentStock: 4},
			product:  models.Product{MeasureID: "kg", PackageQuantity: 2.5},
			measures: sameUnit,
			want:     3,
		},
		{
			name:     "no gap returns neutral one",
			sub:      models.Subcategory{MeasureID: "kg", TargetStock: 4, CurrentStock: 10},
			product:  models.Product{MeasureID: "kg", PackageQuantity: 2.5},
			measures: sameUnit,
			want:     1,
		},
		{
			name:     "gap in grams closed by kilogram packages",
			sub:      models.Subcategory{MeasureID: "g", TargetStock: 3000, CurrentStock: 500},
			product:  models.Product{MeasureID: "kg", PackageQuantity: 1},
			measures: mixed,
			want:     3,
		},
		{
			name:     "dimension mismatch is not converted",
			sub:      models.Subcategory{MeasureID: "kg", TargetStock: 10, CurrentStock: 0},
			product:  models.Product{MeasureID: "L", PackageQuantity: 2},
			measures: crossDim,
			want:     1,
		},
		{
			name:     "missing subcategory measure",
			sub:      models.Subcategory{MeasureID: "gone", TargetStock: 10, CurrentStock: 0},
			product:  models.Product{MeasureID: "kg", PackageQuantity: 2},
			measures: sameUnit,
			want:     1,
		},
		{
			name:     "zero package quantity",
			sub:      models.Subcategory{MeasureID: "kg", TargetStock: 10, CurrentStock: 0},
			product:  models.Product{MeasureID: "kg", PackageQuantity: 0},
			measures: sameUnit,
			want:     1,
		},
		{
			name:     "exact division is not rounded up",
			sub:      models.Subcategory{MeasureID: "kg", TargetStock: 10, CurrentStock: 0},
			product:  models.Product{MeasureID: "kg", PackageQuantity: 5},
			measures: sameUnit,
			want:     2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SuggestedPackageCount(tc.sub, tc.product, tc.measures)
			if got != tc.want {
				t.Errorf("SuggestedPackageCount = %d, want %d", got, tc.want)
			}
		})
	}
}
