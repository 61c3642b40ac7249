// Package memory implements repository.Store with plain maps guarded by a
// mutex. It backs the test suite and offline development; transactions are
// serialized by the store lock, which matches the per-document
// linearizability the production store provides.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

// Store holds every collection in memory, keyed by document id.
type Store struct {
	mu sync.Mutex

	measures      map[string]models.Measure
	categories    map[string]models.Category
	subcategories map[string]models.Subcategory
	products      map[string]models.Product
	cart          map[string]models.CartLine
	movements     map[string]models.Movement

	measureSubs     map[*repository.Subscription[models.Measure]]string
	categorySubs    map[*repository.Subscription[models.Category]]string
	subcategorySubs map[*repository.Subscription[models.Subcategory]]string
	productSubs     map[*repository.Subscription[models.Product]]string
	cartSubs        map[*repository.Subscription[models.CartLine]]string
	movementSubs    map[*repository.Subscription[models.Movement]]string

	failNext error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		measures:        map[string]models.Measure{},
		categories:      map[string]models.Category{},
		subcategories:   map[string]models.Subcategory{},
		products:        map[string]models.Product{},
		cart:            map[string]models.CartLine{},
		movements:       map[string]models.Movement{},
		measureSubs:     map[*repository.Subscription[models.Measure]]string{},
		categorySubs:    map[*repository.Subscription[models.Category]]string{},
		subcategorySubs: map[*repository.Subscription[models.Subcategory]]string{},
		productSubs:     map[*repository.Subscription[models.Product]]string{},
		cartSubs:        map[*repository.Subscription[models.CartLine]]string{},
		movementSubs:    map[*repository.Subscription[models.Movement]]string{},
	}
}

// FailNextTransaction forces the next RunTransaction to fail at commit,
// after its callback ran but before any buffered write is applied. Used to
// exercise the all-or-nothing contract.
func (s *Store) FailNextTransaction(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// RunTransaction serializes the callback under the store lock and applies
// the buffered writes atomically once it returns without error.
func (s *Store) RunTransaction(ctx context.Context, household string, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, household: household}
	if err := fn(tx); err != nil {
		return err
	}
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return fmt.Errorf("%w: %v", repository.ErrTransactionFailed, err)
	}
	return s.applyLocked(household, tx.ops)
}

// BatchWrite applies the ops atomically without a read precondition.
func (s *Store) BatchWrite(ctx context.Context, household string, ops ...repository.WriteOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(household, ops)
}

func (s *Store) applyLocked(household string, ops []repository.WriteOp) error {
	for _, op := range ops {
		switch o := op.(type) {
		case repository.SetStock:
			sub, ok := s.subcategories[o.SubcategoryID]
			if !ok || sub.HouseholdID != household {
				return fmt.Errorf("set stock %s: %w", o.SubcategoryID, repository.ErrNotFound)
			}
			sub.CurrentStock = o.Value
			s.subcategories[o.SubcategoryID] = sub
		case repository.SetShoppingFlag:
			sub, ok := s.subcategories[o.SubcategoryID]
			if !ok || sub.HouseholdID != household {
				return fmt.Errorf("set shopping flag %s: %w", o.SubcategoryID, repository.ErrNotFound)
			}
			sub.OnShoppingList = o.Value
			s.subcategories[o.SubcategoryID] = sub
		case repository.InsertMovement:
			mov := o.Movement
			if mov.ID == "" {
				mov.ID = uuid.NewString()
			}
			mov.HouseholdID = household
			s.movements[mov.ID] = mov
		case repository.DeleteMovement:
			delete(s.movements, o.MovementID)
		case repository.DeleteCartLine:
			delete(s.cart, o.CartLineID)
		case repository.SetProductPrice:
			prod, ok := s.products[o.ProductID]
			if !ok || prod.HouseholdID != household {
				return fmt.Errorf("set price %s: %w", o.ProductID, repository.ErrNotFound)
			}
			price := o.UnitPrice
			prod.LastUnitPrice = &price
			s.products[o.ProductID] = prod
		default:
			return fmt.Errorf("unsupported write op %T", op)
		}
	}
	s.notifyAllLocked(household)
	return nil
}

// Households lists every tenant key with at least one subcategory.
func (s *Store) Households(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	for _, sub := range s.subcategories {
		seen[sub.HouseholdID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out, nil
}

// memTx buffers writes while exposing reads against the locked state.
type memTx struct {
	store     *Store
	household string
	ops       []repository.WriteOp
}

func (t *memTx) Subcategory(id string) (models.Subcategory, error) {
	sub, ok := t.store.subcategories[id]
	if !ok || sub.HouseholdID != t.household {
		return models.Subcategory{}, fmt.Errorf("subcategory %s: %w", id, repository.ErrNotFound)
	}
	return sub, nil
}

func (t *memTx) Product(id string) (models.Product, error) {
	prod, ok := t.store.products[id]
	if !ok || prod.HouseholdID != t.household {
		return models.Product{}, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return prod, nil
}

func (t *memTx) Movement(id string) (models.Movement, error) {
	mov, ok := t.store.movements[id]
	if !ok || mov.HouseholdID != t.household {
		return models.Movement{}, fmt.Errorf("movement %s: %w", id, repository.ErrNotFound)
	}
	return mov, nil
}

func (t *memTx) CartLines() ([]models.CartLine, error) {
	return listByHousehold(t.store.cart, t.household, func(a, b models.CartLine) bool { return a.ID < b.ID }), nil
}

func (t *memTx) Measures() ([]models.Measure, error) {
	return listByHousehold(t.store.measures, t.household, func(a, b models.Measure) bool { return a.ID < b.ID }), nil
}

func (t *memTx) Apply(ops ...repository.WriteOp) {
	t.ops = append(t.ops, ops...)
}

func listByHousehold[T any](m map[string]T, household string, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if owner(v) == household {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func owner(v any) string {
	switch d := v.(type) {
	case models.Measure:
		return d.HouseholdID
	case models.Category:
		return d.HouseholdID
	case models.Subcategory:
		return d.HouseholdID
	case models.Product:
		return d.HouseholdID
	case models.CartLine:
		return d.HouseholdID
	case models.Movement:
		return d.HouseholdID
	}
	return ""
}
