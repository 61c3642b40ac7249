// Package units holds the pure unit-conversion arithmetic: package counts
// into base-unit stock deltas, and the suggested package count that closes
// the gap between target and current stock.
package units

import (
	"errors"
	"fmt"
	"math"

	"github.com/mamadbah2/pantry/internal/domain/models"
)

// ErrUnknownMeasure indicates a unit could not be resolved in the catalog.
var ErrUnknownMeasure = errors.New("unknown measure")

// ToBase converts a quantity expressed in m into the base unit of m's
// dimension.
func ToBase(qty float64, m models.Measure) float64 {
	return qty * m.MultiplierToBase
}

// FindByID resolves a measure by id.
func FindByID(measures []models.Measure, id string) (models.Measure, error) {
	for _, m := range measures {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Measure{}, fmt.Errorf("%w: id %s", ErrUnknownMeasure, id)
}

// FindBySymbol resolves a measure by unit symbol.
func FindBySymbol(measures []models.Measure, symbol string) (models.Measure, error) {
	for _, m := range measures {
		if m.UnitSymbol == symbol {
			return m, nil
		}
	}
	return models.Measure{}, fmt.Errorf("%w: symbol %q", ErrUnknownMeasure, symbol)
}

// PurchaseDelta computes the stock added by one cart line, in the
// subcategory's unit, along with the display text preserving the
// pre-conversion user input.
//
// With a concrete product the package quantity is already expressed in the
// subcategory's unit, so the count multiplies it directly. A generic line is
// converted through the unit recorded on the line; an unresolvable unit
// falls open to multiplier 1 (recorded as-is rather than rejected).
func PurchaseDelta(line models.CartLine, product *models.Product, sub models.Subcategory, measures []models.Measure) (float64, string) {
	if product != nil {
		delta := line.PackageCount * product.PackageQuantity
		return delta, fmt.Sprintf("+%s pkg of %s", FormatQuantity(line.PackageCount), product.Name)
	}

	unit := line.Unit
	if unit == "" {
		unit = sub.MeasureUnit
	}
	multiplier := 1.0
	if m, err := FindBySymbol(measures, unit); err == nil {
		multiplier = m.MultiplierToBase
	}
	delta := line.PackageCount * multiplier
	return delta, fmt.Sprintf("+%s %s", FormatQuantity(line.PackageCount), unit)
}

// SuggestedPackageCount sizes a purchase to close the stock gap, rounding
// up so a single pass never leaves the user short. It returns 1 whenever no
// meaningful suggestion exists (no gap, unknown measures, mismatched
// dimensions, zero-sized package) so input fields stay usable.
func SuggestedPackageCount(sub models.Subcategory, product models.Product, measures []models.Measure) int {
	if product.PackageQuantity <= 0 {
		return 1
	}

	gap := sub.TargetStock - sub.CurrentStock
	if gap <= 0 {
		return 1
	}

	baseMeasure, err := FindByID(measures, sub.MeasureID)
	if err != nil {
		return 1
	}
	productMeasure, err := FindByID(measures, product.MeasureID)
	if err != nil {
		return 1
	}
	if baseMeasure.ControlType != productMeasure.ControlType {
		return 1
	}

	gapBase := ToBase(gap, baseMeasure)
	packageBase := ToBase(product.PackageQuantity, productMeasure)
	if packageBase == 0 {
		return 1
	}

	count := int(math.Ceil(gapBase / packageBase))
	if count < 1 {
		return 1
	}
	return count
}

// FormatQuantity renders a quantity for display text, trimming trailing
// zeros ("2.50" -> "2.5", "4.00" -> "4").
func FormatQuantity(v float64) string {
	out := fmt.Sprintf("%.2f", v)
	for len(out) > 0 && out[len(out)-1] == '0' {
		out = out[:len(out)-1]
	}
	if len(out) > 0 && out[len(out)-1] == '.' {
		out = out[:len(out)-1]
	}
	return out
}
