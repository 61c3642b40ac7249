package models

// CartLine is a staged, not-yet-committed purchase intent. An empty
// ProductID means a "generic" purchase recorded directly in the unit stored
// on the line. Lines are consumed (deleted) by a successful purchase
// transaction or removed individually by the user.
type CartLine struct {
	ID              string  `bson:"_id" json:"id"`
	SubcategoryID   string  `bson:"subcategoryId" json:"subcategoryId"`
	SubcategoryName string  `bson:"subcategoryName" json:"subcategoryName"`
	ProductID       string  `bson:"productId,omitempty" json:"productId,omitempty"`
	ProductName     string  `bson:"productName,omitempty" json:"productName,omitempty"`
	PackageCount    float64 `bson:"quantity" json:"packageCount"`
	Unit            string  `bson:"unit,omitempty" json:"unit,omitempty"`
	UnitPrice       float64 `bson:"unitPrice" json:"unitPrice"`
	UserID          string  `bson:"userId" json:"userId"`
	HouseholdID     string  `bson:"householdId" json:"householdId"`
}
