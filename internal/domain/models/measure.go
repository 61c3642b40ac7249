package models

// ControlType groups convertible units by physical dimension. Two measures
// can only be converted into one another when they share a control type.
type ControlType string

const (
	ControlWeight ControlType = "weight"
	ControlVolume ControlType = "volume"
	ControlCount  ControlType = "count"
)

// Valid reports whether the control type is one of the known dimensions.
func (c ControlType) Valid() bool {
	switch c {
	case ControlWeight, ControlVolume, ControlCount:
		return true
	}
	return false
}

// Measure is a unit definition with a conversion multiplier into the
// canonical base unit of its dimension (e.g. kg -> 1000 g).
type Measure struct {
	ID               string      `bson:"_id" json:"id"`
	ControlType      ControlType `bson:"measureControl" json:"controlType"`
	UnitSymbol       string      `bson:"measureUnit" json:"unitSymbol"`
	MultiplierToBase float64     `bson:"measureMultiplier" json:"multiplierToBase"`
	UserID           string      `bson:"userId" json:"userId"`
	HouseholdID      string      `bson:"householdId" json:"householdId"`
}
