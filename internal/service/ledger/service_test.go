package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
	"github.com/mamadbah2/pantry/internal/repository/memory"
)

var sess = models.Session{UserID: "u1", HouseholdID: "h1"}

func setup(t *testing.T) (*memory.Store, *Service) {
	t.Helper()
	store := memory.New()
	return store, NewService(store, nil)
}

func seedSubcategory(t *testing.T, store *memory.Store, id string, stock, target float64) models.Subcategory {
	t.Helper()
	sub, err := store.InsertSubcategory(context.Background(), models.Subcategory{
		ID:           id,
		Name:         "item-" + id,
		CategoryID:   "cat1",
		CategoryName: "Groceries",
		MeasureID:    "kg",
		MeasureUnit:  "kg",
		CurrentStock: stock,
		TargetStock:  target,
		UserID:       sess.UserID,
		HouseholdID:  sess.HouseholdID,
	})
	if err != nil {
		t.Fatalf("seed subcategory: %v", err)
	}
	return sub
}

func seedProduct(t *testing.T, store *memory.Store, id, subID string, pkgQty float64) models.Product {
	t.Helper()
	prod, err := store.InsertProduct(context.Background(), models.Product{
		ID:              id,
		Name:            "product-" + id,
		SubcategoryID:   subID,
		PackageQuantity: pkgQty,
		MeasureID:       "kg",
		MeasureUnit:     "kg",
		UserID:          sess.UserID,
		HouseholdID:     sess.HouseholdID,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return prod
}

func seedCartLine(t *testing.T, store *memory.Store, id, subID, prodID string, count, price float64) models.CartLine {
	t.Helper()
	line, err := store.InsertCartLine(context.Background(), models.CartLine{
		ID:            id,
		SubcategoryID: subID,
		ProductID:     prodID,
		PackageCount:  count,
		UnitPrice:     price,
		UserID:        sess.UserID,
		HouseholdID:   sess.HouseholdID,
	})
	if err != nil {
		t.Fatalf("seed cart line: %v", err)
	}
	return line
}

func currentStock(t *testing.T, store *memory.Store, id string) float64 {
	t.Helper()
	sub, err := store.GetSubcategory(context.Background(), sess.HouseholdID, id)
	if err != nil {
		t.Fatalf("get subcategory: %v", err)
	}
	return sub.CurrentStock
}

func movements(t *testing.T, store *memory.Store) []models.Movement {
	t.Helper()
	movs, err := store.ListMovements(context.Background(), sess.HouseholdID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	return movs
}

func TestPurchaseCommit(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "A", 1, 20)
	seedProduct(t, store, "P", "A", 5)
	seedCartLine(t, store, "L1", "A", "P", 2, 3.0)

	ts := time.Date(2025, 11, 2, 10, 30, 0, 0, time.UTC)
	err := svc.RecordPurchase(ctx, sess, PurchaseEntry{Timestamp: ts, Location: "Market"})
	if err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}

	if got := currentStock(t, store, "A"); got != 11 {
		t.Errorf("currentStock = %v, want 11", got)
	}

	movs := movements(t, store)
	if len(movs) != 1 {
		t.Fatalf("movements = %d, want 1", len(movs))
	}
	mov := movs[0]
	if mov.QuantityDelta != 10 || mov.Kind != models.KindEntry || mov.Origin != models.OriginPurchase {
		t.Errorf("movement = {delta: %v, kind: %s, origin: %s}, want {10, entry, purchase}",
			mov.QuantityDelta, mov.Kind, mov.Origin)
	}
	if mov.LocationLabel != "Market" || !mov.Timestamp.Equal(ts) {
		t.Errorf("movement metadata = {%q, %v}", mov.LocationLabel, mov.Timestamp)
	}
	if mov.PurchaseValue == nil || *mov.PurchaseValue != 6.0 {
		t.Errorf("purchase value = %v, want 6.0", mov.PurchaseValue)
	}

	if lines, _ := store.ListCartLines(ctx, sess.HouseholdID); len(lines) != 0 {
		t.Errorf("cart lines = %d, want 0", len(lines))
	}

	prod, err := store.GetProduct(ctx, sess.HouseholdID, "P")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if prod.LastUnitPrice == nil || *prod.LastUnitPrice != 3.0 {
		t.Errorf("lastUnitPrice = %v, want 3.0", prod.LastUnitPrice)
	}
}

func TestPurchaseAccumulatesLinesForSameSubcategory(t *testing.T) {
	store, svc := setup(t)

	seedSubcategory(t, store, "A", 0, 0)
	seedProduct(t, store, "P", "A", 5)
	seedCartLine(t, store, "L1", "A", "P", 1, 2.0)
	seedCartLine(t, store, "L2", "A", "P", 2, 2.0)

	if err := svc.RecordPurchase(context.Background(), sess, PurchaseEntry{Location: "Market"}); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if got := currentStock(t, store, "A"); got != 15 {
		t.Errorf("currentStock = %v, want 15 (5 + 10)", got)
	}
	if movs := movements(t, store); len(movs) != 2 {
		t.Errorf("movements = %d, want 2", len(movs))
	}
}

func TestPurchaseValidation(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	if err := svc.RecordPurchase(ctx, sess, PurchaseEntry{}); !errors.Is(err, ErrMissingLocation) {
		t.Errorf("missing location: err = %v, want ErrMissingLocation", err)
	}
	if err := svc.RecordPurchase(ctx, sess, PurchaseEntry{Location: "Market"}); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("empty cart: err = %v, want ErrEmptyCart", err)
	}

	seedSubcategory(t, store, "A", 0, 0)
	if err := svc.RecordPurchase(ctx, models.Session{}, PurchaseEntry{Location: "Market"}); !errors.Is(err, models.ErrInvalidSession) {
		t.Errorf("invalid session: err = %v, want ErrInvalidSession", err)
	}
}

func TestPurchaseAtomicityUnderInjectedFailure(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "A", 1, 0)
	seedSubcategory(t, store, "B", 2, 0)
	seedProduct(t, store, "P", "A", 5)
	seedCartLine(t, store, "L1", "A", "P", 2, 3.0)
	seedCartLine(t, store, "L2", "B", "", 4, 1.0)

	store.FailNextTransaction(errors.New("connection lost"))

	err := svc.RecordPurchase(ctx, sess, PurchaseEntry{Location: "Market"})
	if !errors.Is(err, repository.ErrTransactionFailed) {
		t.Fatalf("err = %v, want ErrTransactionFailed", err)
	}

	if got := currentStock(t, store, "A"); got != 1 {
		t.Errorf("A stock = %v, want unchanged 1", got)
	}
	if got := currentStock(t, store, "B"); got != 2 {
		t.Errorf("B stock = %v, want unchanged 2", got)
	}
	if movs := movements(t, store); len(movs) != 0 {
		t.Errorf("movements = %d, want 0", len(movs))
	}
	if lines, _ := store.ListCartLines(ctx, sess.HouseholdID); len(lines) != 2 {
		t.Errorf("cart lines = %d, want 2 (untouched)", len(lines))
	}
}

func TestConsumptionFloor(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "B", 2, 0)

	err := svc.RecordConsumption(ctx, sess, ConsumptionExit{SubcategoryID: "B", Quantity: 5})
	if err != nil {
		t.Fatalf("RecordConsumption: %v", err)
	}

	if got := currentStock(t, store, "B"); got != 0 {
		t.Errorf("currentStock = %v, want 0 (clamped)", got)
	}

	movs := movements(t, store)
	if len(movs) != 1 {
		t.Fatalf("movements = %d, want 1", len(movs))
	}
	// Recorded delta is the clamped amount actually removed.
	if movs[0].QuantityDelta != -2 {
		t.Errorf("delta = %v, want -2", movs[0].QuantityDelta)
	}
	if movs[0].Kind != models.KindExit || movs[0].Origin != models.OriginConsumption {
		t.Errorf("movement = {%s, %s}, want {exit, consumption}", movs[0].Kind, movs[0].Origin)
	}
}

func TestConsumptionOfEmptyStockRecordsNothing(t *testing.T) {
	store, svc := setup(t)

	seedSubcategory(t, store, "B", 0, 0)

	if err := svc.RecordConsumption(context.Background(), sess, ConsumptionExit{SubcategoryID: "B", Quantity: 3}); err != nil {
		t.Fatalf("RecordConsumption: %v", err)
	}
	if movs := movements(t, store); len(movs) != 0 {
		t.Errorf("movements = %d, want 0", len(movs))
	}
}

func TestConsumptionValidation(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	err := svc.RecordConsumption(ctx, sess, ConsumptionExit{SubcategoryID: "B", Quantity: 0})
	if !errors.Is(err, ErrNonPositiveQuantity) {
		t.Errorf("zero quantity: err = %v, want ErrNonPositiveQuantity", err)
	}
	err = svc.RecordConsumption(ctx, sess, ConsumptionExit{SubcategoryID: "missing", Quantity: 1})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing subcategory: err = %v, want ErrNotFound", err)
	}
}

func TestAdjustment(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "C", 7, 0)

	if err := svc.RecordAdjustment(ctx, sess, ManualAdjustment{SubcategoryID: "C", NewStock: 4.5}); err != nil {
		t.Fatalf("RecordAdjustment: %v", err)
	}

	if got := currentStock(t, store, "C"); got != 4.5 {
		t.Errorf("currentStock = %v, want 4.5", got)
	}
	movs := movements(t, store)
	if len(movs) != 1 {
		t.Fatalf("movements = %d, want 1", len(movs))
	}
	if movs[0].QuantityDelta != -2.5 || movs[0].Kind != models.KindAdjustment || movs[0].Origin != models.OriginManual {
		t.Errorf("movement = {delta: %v, kind: %s, origin: %s}, want {-2.5, adjustment, manual}",
			movs[0].QuantityDelta, movs[0].Kind, movs[0].Origin)
	}
}

func TestAdjustmentNoChangeRecordsNothing(t *testing.T) {
	store, svc := setup(t)

	seedSubcategory(t, store, "C", 7, 0)

	if err := svc.RecordAdjustment(context.Background(), sess, ManualAdjustment{SubcategoryID: "C", NewStock: 7}); err != nil {
		t.Fatalf("RecordAdjustment: %v", err)
	}
	if movs := movements(t, store); len(movs) != 0 {
		t.Errorf("movements = %d, want 0", len(movs))
	}
}

func TestReversal(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "C", 5, 20)

	if err := svc.RecordAdjustment(ctx, sess, ManualAdjustment{SubcategoryID: "C", NewStock: 15}); err != nil {
		t.Fatalf("RecordAdjustment: %v", err)
	}
	movs := movements(t, store)
	if len(movs) != 1 || movs[0].QuantityDelta != 10 {
		t.Fatalf("setup movement = %+v", movs)
	}

	if err := svc.ReverseMovement(ctx, sess, movs[0].ID); err != nil {
		t.Fatalf("ReverseMovement: %v", err)
	}

	if got := currentStock(t, store, "C"); got != 5 {
		t.Errorf("currentStock = %v, want 5", got)
	}
	if movs := movements(t, store); len(movs) != 0 {
		t.Errorf("movements = %d, want 0 after reversal", len(movs))
	}
}

func TestReversalFloorsAtZero(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "D", 0, 0)

	// +10 entry, then 8 consumed, leaves 2; reversing the +10 floors at 0.
	if err := svc.RecordAdjustment(ctx, sess, ManualAdjustment{SubcategoryID: "D", NewStock: 10}); err != nil {
		t.Fatalf("RecordAdjustment: %v", err)
	}
	entry := movements(t, store)[0]
	if err := svc.RecordConsumption(ctx, sess, ConsumptionExit{SubcategoryID: "D", Quantity: 8}); err != nil {
		t.Fatalf("RecordConsumption: %v", err)
	}

	if err := svc.ReverseMovement(ctx, sess, entry.ID); err != nil {
		t.Fatalf("ReverseMovement: %v", err)
	}
	if got := currentStock(t, store, "D"); got != 0 {
		t.Errorf("currentStock = %v, want 0 (floored)", got)
	}
}

func TestReversalOfOrphanMovementStillDeletes(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "E", 0, 0)
	if err := svc.RecordAdjustment(ctx, sess, ManualAdjustment{SubcategoryID: "E", NewStock: 3}); err != nil {
		t.Fatalf("RecordAdjustment: %v", err)
	}
	mov := movements(t, store)[0]

	if err := store.DeleteSubcategory(ctx, sess.HouseholdID, "E"); err != nil {
		t.Fatalf("delete subcategory: %v", err)
	}

	if err := svc.ReverseMovement(ctx, sess, mov.ID); err != nil {
		t.Fatalf("ReverseMovement: %v", err)
	}
	if movs := movements(t, store); len(movs) != 0 {
		t.Errorf("movements = %d, want 0", len(movs))
	}
}

func TestReversalOfMissingMovement(t *testing.T) {
	_, svc := setup(t)

	err := svc.ReverseMovement(context.Background(), sess, "nope")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// Stock always equals the sum of surviving movement deltas (modulo the
// documented reversal floor) across a mixed sequence of operations.
func TestStockEqualsSumOfSurvivingDeltas(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	seedSubcategory(t, store, "A", 0, 50)
	seedProduct(t, store, "P", "A", 5)

	seedCartLine(t, store, "L1", "A", "P", 3, 2.0)
	if err := svc.RecordPurchase(ctx, sess, PurchaseEntry{Location: "Market"}); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if err := svc.RecordConsumption(ctx, sess, ConsumptionExit{SubcategoryID: "A", Quantity: 4}); err != nil {
		t.Fatalf("RecordConsumption: %v", err)
	}
	if err := svc.RecordAdjustment(ctx, sess, ManualAdjustment{SubcategoryID: "A", NewStock: 20}); err != nil {
		t.Fatalf("RecordAdjustment: %v", err)
	}
	if err := svc.RecordConsumption(ctx, sess, ConsumptionExit{SubcategoryID: "A", Quantity: 7}); err != nil {
		t.Fatalf("RecordConsumption: %v", err)
	}

	var sum float64
	for _, mov := range movements(t, store) {
		sum += mov.QuantityDelta
	}
	if got := currentStock(t, store, "A"); math.Abs(got-sum) > 1e-9 {
		t.Errorf("currentStock = %v, sum of deltas = %v", got, sum)
	}

	// Reverse one mid-sequence movement; the invariant must survive since
	// no floor clamping applies here.
	movs := movements(t, store)
	var consumption models.Movement
	for _, m := range movs {
		if m.Origin == models.OriginConsumption && m.QuantityDelta == -7 {
			consumption = m
		}
	}
	if consumption.ID == "" {
		t.Fatal("consumption movement not found")
	}
	if err := svc.ReverseMovement(ctx, sess, consumption.ID); err != nil {
		t.Fatalf("ReverseMovement: %v", err)
	}

	sum = 0
	for _, mov := range movements(t, store) {
		sum += mov.QuantityDelta
	}
	if got := currentStock(t, store, "A"); math.Abs(got-sum) > 1e-9 {
		t.Errorf("after reversal: currentStock = %v, sum of deltas = %v", got, sum)
	}
}

func TestSuggestedPackageCountThroughStore(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	if _, err := store.InsertMeasure(ctx, models.Measure{
		ID: "kg", ControlType: models.ControlWeight, UnitSymbol: "kg",
		MultiplierToBase: 1, UserID: sess.UserID, HouseholdID: sess.HouseholdID,
	}); err != nil {
		t.Fatalf("seed measure: %v", err)
	}
	seedSubcategory(t, store, "A", 4, 10)
	seedProduct(t, store, "P", "A", 2.5)

	got, err := svc.SuggestedPackageCount(ctx, sess, "A", "P")
	if err != nil {
		t.Fatalf("SuggestedPackageCount: %v", err)
	}
	if got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}
