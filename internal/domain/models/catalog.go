package models

// Category is a top-level grouping of stock items.
type Category struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	UserID      string `bson:"userId" json:"userId"`
	HouseholdID string `bson:"householdId" json:"householdId"`
}

// Subcategory is the stock-bearing inventory item ("Rice"). CurrentStock,
// MinimumStock and TargetStock are expressed in the subcategory's own
// measure unit. CurrentStock only ever moves through the ledger or a
// reversal, never through catalog edits.
type Subcategory struct {
	ID             string      `bson:"_id" json:"id"`
	Name           string      `bson:"name" json:"name"`
	CategoryID     string      `bson:"categoryId" json:"categoryId"`
	CategoryName   string      `bson:"categoryName" json:"categoryName"`
	MeasureID      string      `bson:"measureId" json:"measureId"`
	MeasureControl ControlType `bson:"measureControl" json:"measureControl"`
	MeasureUnit    string      `bson:"measureUnit" json:"measureUnit"`
	MinimumStock   float64     `bson:"minimumStock" json:"minimumStock"`
	TargetStock    float64     `bson:"targetStock" json:"targetStock"`
	CurrentStock   float64     `bson:"currentStock" json:"currentStock"`
	OnShoppingList bool        `bson:"onShoppingList" json:"onShoppingList"`
	UserID         string      `bson:"userId" json:"userId"`
	HouseholdID    string      `bson:"householdId" json:"householdId"`
}

// Product is a concrete purchasable packaging of a subcategory
// ("Rice — Brand X, 5kg bag"). PackageQuantity is the amount of the
// subcategory's unit contained in one package. The product's measure must
// share a control type with the parent subcategory's measure.
type Product struct {
	ID              string      `bson:"_id" json:"id"`
	Name            string      `bson:"name" json:"name"`
	CategoryID      string      `bson:"categoryId" json:"categoryId"`
	CategoryName    string      `bson:"categoryName" json:"categoryName"`
	SubcategoryID   string      `bson:"subcategoryId" json:"subcategoryId"`
	SubcategoryName string      `bson:"subcategoryName" json:"subcategoryName"`
	PackageQuantity float64     `bson:"unitQuantity" json:"packageQuantity"`
	MeasureID       string      `bson:"measureId" json:"measureId"`
	MeasureControl  ControlType `bson:"measureControl" json:"measureControl"`
	MeasureUnit     string      `bson:"measureUnit" json:"measureUnit"`
	LastUnitPrice   *float64    `bson:"lastPrice,omitempty" json:"lastUnitPrice,omitempty"`
	UserID          string      `bson:"userId" json:"userId"`
	HouseholdID     string      `bson:"householdId" json:"householdId"`
}
