// Package repository defines the boundary to the document store backing the
// pantry: tenant-scoped CRUD per collection, atomic multi-document
// transactions, batched writes, and change-feed subscriptions. Two
// implementations exist, mongodb (production) and memory (tests, offline).
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/pantry/internal/domain/models"
)

// Collection names mirror the store's document collections.
const (
	CollectionMeasures      = "measures"
	CollectionCategories    = "categories"
	CollectionSubcategories = "subcategories"
	CollectionProducts      = "products"
	CollectionCart          = "cart"
	CollectionMovements     = "movements"
)

var (
	// ErrNotFound indicates the requested document does not exist within
	// the household scope.
	ErrNotFound = errors.New("document not found")
	// ErrTransactionFailed indicates the store could not commit a
	// transaction after its bounded retries. No partial effect persisted.
	ErrTransactionFailed = errors.New("transaction failed")
)

// WriteOp is one mutation inside a transaction or batch. The set is closed:
// every ledger-side write is one of the variants below, validated before it
// reaches the store.
type WriteOp interface{ writeOp() }

// SetStock overwrites a subcategory's current stock with a value computed
// against the stock read inside the same transaction.
type SetStock struct {
	SubcategoryID string
	Value         float64
}

// SetShoppingFlag toggles a subcategory's shopping-list marker.
type SetShoppingFlag struct {
	SubcategoryID string
	Value         bool
}

// InsertMovement appends an immutable ledger record.
type InsertMovement struct {
	Movement models.Movement
}

// DeleteMovement removes a ledger record (reversal path only).
type DeleteMovement struct {
	MovementID string
}

// DeleteCartLine removes one staged cart line.
type DeleteCartLine struct {
	CartLineID string
}

// SetProductPrice records the unit price last paid for a product.
type SetProductPrice struct {
	ProductID string
	UnitPrice float64
}

func (SetStock) writeOp()        {}
func (SetShoppingFlag) writeOp() {}
func (InsertMovement) writeOp()  {}
func (DeleteMovement) writeOp()  {}
func (DeleteCartLine) writeOp()  {}
func (SetProductPrice) writeOp() {}

// Tx exposes reads evaluated inside an open transaction, plus a buffer of
// writes applied atomically at commit. Reads are scoped to the household the
// transaction was opened for.
type Tx interface {
	Subcategory(id string) (models.Subcategory, error)
	Product(id string) (models.Product, error)
	Movement(id string) (models.Movement, error)
	CartLines() ([]models.CartLine, error)
	Measures() ([]models.Measure, error)
	Apply(ops ...WriteOp)
}

// Store is the full surface the services depend on. Each service narrows it
// to the methods it actually uses.
type Store interface {
	// RunTransaction opens an atomic read-then-write transaction scoped to
	// one household. The callback's reads see committed state at
	// transaction time; writes buffered via Tx.Apply land all-or-nothing.
	// Transient conflicts are retried a bounded number of times before the
	// call fails with ErrTransactionFailed.
	RunTransaction(ctx context.Context, household string, fn func(tx Tx) error) error

	// BatchWrite applies the ops atomically without a read precondition.
	BatchWrite(ctx context.Context, household string, ops ...WriteOp) error

	// Households lists every tenant key present in the store.
	Households(ctx context.Context) ([]string, error)

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

	InsertCartLine(ctx context.Context, l models.CartLine) (models.CartLine, error)
	UpdateCartLine(ctx context.Context, l models.CartLine) error
	DeleteCartLine(ctx context.Context, household, id string) error
	GetCartLine(ctx context.Context, household, id string) (models.CartLine, error)
	ListCartLines(ctx context.Context, household string) ([]models.CartLine, error)

	GetMovement(ctx context.Context, household, id string) (models.Movement, error)
	ListMovements(ctx context.Context, household string) ([]models.Movement, error)

	WatchMeasures(ctx context.Context, household string) (*Subscription[models.Measure], error)
	WatchCategories(ctx context.Context, household string) (*Subscription[models.Category], error)
	WatchSubcategories(ctx context.Context, household string) (*Subscription[models.Subcategory], error)
	WatchProducts(ctx context.Context, household string) (*Subscription[models.Product], error)
	WatchCartLines(ctx context.Context, household string) (*Subscription[models.CartLine], error)
	WatchMovements(ctx context.Context, household string) (*Subscription[models.Movement], error)
}
