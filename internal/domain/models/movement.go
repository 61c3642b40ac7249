package models

import "time"

// MovementKind classifies the direction of a stock change.
type MovementKind string

const (
	KindEntry      MovementKind = "entry"
	KindExit       MovementKind = "exit"
	KindAdjustment MovementKind = "adjustment"
)

// MovementOrigin records what triggered a stock change.
type MovementOrigin string

const (
	OriginPurchase    MovementOrigin = "purchase"
	OriginConsumption MovementOrigin = "consumption"
	OriginManual      MovementOrigin = "manual"
)

// Movement is an immutable ledger record of a single stock change. For any
// subcategory, currentStock equals the initial stock plus the sum of
// QuantityDelta over all surviving movements. A movement is only ever
// removed by the reversal path, which applies the inverse delta in the same
// transaction.
type Movement struct {
	ID              string         `bson:"_id" json:"id"`
	Kind            MovementKind   `bson:"type" json:"kind"`
	Origin          MovementOrigin `bson:"origin" json:"origin"`
	Timestamp       time.Time      `bson:"dateTime" json:"timestamp"`
	SubcategoryID   string         `bson:"subcategoryId" json:"subcategoryId"`
	SubcategoryName string         `bson:"subcategoryName" json:"subcategoryName"`
	CategoryID      string         `bson:"categoryId" json:"categoryId"`
	CategoryName    string         `bson:"categoryName" json:"categoryName"`
	ProductID       string         `bson:"productId,omitempty" json:"productId,omitempty"`
	ProductName     string         `bson:"productName,omitempty" json:"productName,omitempty"`
	QuantityDelta   float64        `bson:"quantity" json:"quantityDelta"`
	DisplayText     string         `bson:"displayQuantity" json:"displayText"`
	PurchaseValue   *float64       `bson:"value,omitempty" json:"purchaseValue,omitempty"`
	LocationLabel   string         `bson:"location,omitempty" json:"locationLabel,omitempty"`
	UserID          string         `bson:"userId" json:"userId"`
	HouseholdID     string         `bson:"householdId" json:"householdId"`
}
