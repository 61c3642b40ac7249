package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

func (s *Store) InsertMeasure(ctx context.Context, m models.Measure) (models.Measure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	s.measures[m.ID] = m
	s.notifyMeasuresLocked(m.HouseholdID)
	return m, nil
}

func (s *Store) UpdateMeasure(ctx context.Context, m models.Measure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.measures[m.ID]
	if !ok || cur.HouseholdID != m.HouseholdID {
		return fmt.Errorf("measure %s: %w", m.ID, repository.ErrNotFound)
	}
	s.measures[m.ID] = m
	s.notifyMeasuresLocked(m.HouseholdID)
	return nil
}

func (s *Store) DeleteMeasure(ctx context.Context, household, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.measures[id]
	if !ok || cur.HouseholdID != household {
		return fmt.Errorf("measure %s: %w", id, repository.ErrNotFound)
	}
	delete(s.measures, id)
	s.notifyMeasuresLocked(household)
	return nil
}

func (s *Store) GetMeasure(ctx context.Context, household, id string) (models.Measure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.measures[id]
	if !ok || m.HouseholdID != household {
		return models.Measure{}, fmt.Errorf("measure %s: %w", id, repository.ErrNotFound)
	}
	return m, nil
}

func (s *Store) ListMeasures(ctx context.Context, household string) ([]models.Measure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listByHousehold(s.measures, household, func(a, b models.Measure) bool { return a.UnitSymbol < b.UnitSymbol }), nil
}

func (s *Store) InsertCategory(ctx context.Context, c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.categories[c.ID] = c
	s.notifyCategoriesLocked(c.HouseholdID)
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.categories[c.ID]
	if !ok || cur.HouseholdID != c.HouseholdID {
		return fmt.Errorf("category %s: %w", c.ID, repository.ErrNotFound)
	}
	s.categories[c.ID] = c
	s.notifyCategoriesLocked(c.HouseholdID)
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, household, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.categories[id]
	if !ok || cur.HouseholdID != household {
		return fmt.Errorf("category %s: %w", id, repository.ErrNotFound)
	}
	delete(s.categories, id)
	s.notifyCategoriesLocked(household)
	return nil
}

func (s *Store) ListCategories(ctx context.Context, household string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listByHousehold(s.categories, household, func(a, b models.Category) bool { return a.Name < b.Name }), nil
}

func (s *Store) InsertSubcategory(ctx context.Context, sub models.Subcategory) (models.Subcategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	s.subcategories[sub.ID] = sub
	s.notifySubcategoriesLocked(sub.HouseholdID)
	return sub, nil
}

func (s *Store) UpdateSubcategory(ctx context.Context, sub models.Subcategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.subcategories[sub.ID]
	if !ok || cur.HouseholdID != sub.HouseholdID {
		return fmt.Errorf("subcategory %s: %w", sub.ID, repository.ErrNotFound)
	}
	s.subcategories[sub.ID] = sub
	s.notifySubcategoriesLocked(sub.HouseholdID)
	return nil
}

func (s *Store) DeleteSubcategory(ctx context.Context, household, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.subcategories[id]
	if !ok || cur.HouseholdID != household {
		return fmt.Errorf("subcategory %s: %w", id, repository.ErrNotFound)
	}
	delete(s.subcategories, id)
	s.notifySubcategoriesLocked(household)
	return nil
}

func (s *Store) GetSubcategory(ctx context.Context, household, id string) (models.Subcategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subcategories[id]
	if !ok || sub.HouseholdID != household {
		return models.Subcategory{}, fmt.Errorf("subcategory %s: %w", id, repository.ErrNotFound)
	}
	return sub, nil
}

func (s *Store) ListSubcategories(ctx context.Context, household string) ([]models.Subcategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listByHousehold(s.subcategories, household, func(a, b models.Subcategory) bool { return a.Name < b.Name }), nil
}

func (s *Store) InsertProduct(ctx context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.products[p.ID] = p
	s.notifyProductsLocked(p.HouseholdID)
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok || cur.HouseholdID != p.HouseholdID {
		return fmt.Errorf("product %s: %w", p.ID, repository.ErrNotFound)
	}
	s.products[p.ID] = p
	s.notifyProductsLocked(p.HouseholdID)
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, household, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[id]
	if !ok || cur.HouseholdID != household {
		return fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	delete(s.products, id)
	s.notifyProductsLocked(household)
	return nil
}

func (s *Store) GetProduct(ctx context.Context, household, id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.HouseholdID != household {
		return models.Product{}, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, household string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listByHousehold(s.products, household, func(a, b models.Product) bool { return a.Name < b.Name }), nil
}

func (s *Store) InsertCartLine(ctx context.Context, l models.CartLine) (models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.cart[l.ID] = l
	s.notifyCartLocked(l.HouseholdID)
	return l, nil
}

func (s *Store) UpdateCartLine(ctx context.Context, l models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.cart[l.ID]
	if !ok || cur.HouseholdID != l.HouseholdID {
		return fmt.Errorf("cart line %s: %w", l.ID, repository.ErrNotFound)
	}
	s.cart[l.ID] = l
	s.notifyCartLocked(l.HouseholdID)
	return nil
}

func (s *Store) DeleteCartLine(ctx context.Context, household, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.cart[id]
	if !ok || cur.HouseholdID != household {
		return fmt.Errorf("cart line %s: %w", id, repository.ErrNotFound)
	}
	delete(s.cart, id)
	s.notifyCartLocked(household)
	return nil
}

func (s *Store) GetCartLine(ctx context.Context, household, id string) (models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.cart[id]
	if !ok || l.HouseholdID != household {
		return models.CartLine{}, fmt.Errorf("cart line %s: %w", id, repository.ErrNotFound)
	}
	return l, nil
}

func (s *Store) ListCartLines(ctx context.Context, household string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listByHousehold(s.cart, household, func(a, b models.CartLine) bool { return a.ID < b.ID }), nil
}

func (s *Store) GetMovement(ctx context.Context, household, id string) (models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mov, ok := s.movements[id]
	if !ok || mov.HouseholdID != household {
		return models.Movement{}, fmt.Errorf("movement %s: %w", id, repository.ErrNotFound)
	}
	return mov, nil
}

func (s *Store) ListMovements(ctx context.Context, household string) ([]models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := listByHousehold(s.movements, household, func(a, b models.Movement) bool { return a.ID < b.ID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
