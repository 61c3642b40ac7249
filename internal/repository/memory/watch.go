package memory

import (
	"context"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

// The memory store applies writes synchronously, so snapshots never carry a
// pending-writes flag. Subscribers receive the initial snapshot at
// registration and one snapshot per mutation touching their collection.

func (s *Store) WatchMeasures(ctx context.Context, household string) (*repository.Subscription[models.Measure], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sub *repository.Subscription[models.Measure]
	sub = repository.NewSubscription[models.Measure](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.measureSubs, sub)
	})
	s.measureSubs[sub] = household
	sub.Publish(repository.Snapshot[models.Measure]{Items: listByHousehold(s.measures, household, func(a, b models.Measure) bool { return a.UnitSymbol < b.UnitSymbol })})
	return sub, nil
}

func (s *Store) WatchCategories(ctx context.Context, household string) (*repository.Subscription[models.Category], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sub *repository.Subscription[models.Category]
	sub = repository.NewSubscription[models.Category](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.categorySubs, sub)
	})
	s.categorySubs[sub] = household
	sub.Publish(repository.Snapshot[models.Category]{Items: listByHousehold(s.categories, household, func(a, b models.Category) bool { return a.Name < b.Name })})
	return sub, nil
}

func (s *Store) WatchSubcategories(ctx context.Context, household string) (*repository.Subscription[models.Subcategory], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sub *repository.Subscription[models.Subcategory]
	sub = repository.NewSubscription[models.Subcategory](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subcategorySubs, sub)
	})
	s.subcategorySubs[sub] = household
	sub.Publish(repository.Snapshot[models.Subcategory]{Items: listByHousehold(s.subcategories, household, func(a, b models.Subcategory) bool { return a.Name < b.Name })})
	return sub, nil
}

func (s *Store) WatchProducts(ctx context.Context, household string) (*repository.Subscription[models.Product], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sub *repository.Subscription[models.Product]
	sub = repository.NewSubscription[models.Product](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.productSubs, sub)
	})
	s.productSubs[sub] = household
	sub.Publish(repository.Snapshot[models.Product]{Items: listByHousehold(s.products, household, func(a, b models.Product) bool { return a.Name < b.Name })})
	return sub, nil
}

func (s *Store) WatchCartLines(ctx context.Context, household string) (*repository.Subscription[models.CartLine], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sub *repository.Subscription[models.CartLine]
	sub = repository.NewSubscription[models.CartLine](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.cartSubs, sub)
	})
	s.cartSubs[sub] = household
	sub.Publish(repository.Snapshot[models.CartLine]{Items: listByHousehold(s.cart, household, func(a, b models.CartLine) bool { return a.ID < b.ID })})
	return sub, nil
}

func (s *Store) WatchMovements(ctx context.Context, household string) (*repository.Subscription[models.Movement], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sub *repository.Subscription[models.Movement]
	sub = repository.NewSubscription[models.Movement](func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.movementSubs, sub)
	})
	s.movementSubs[sub] = household
	sub.Publish(repository.Snapshot[models.Movement]{Items: listByHousehold(s.movements, household, func(a, b models.Movement) bool { return a.ID < b.ID })})
	return sub, nil
}

func (s *Store) notifyMeasuresLocked(household string) {
	for sub, h := range s.measureSubs {
		if h == household {
			sub.Publish(repository.Snapshot[models.Measure]{Items: listByHousehold(s.measures, household, func(a, b models.Measure) bool { return a.UnitSymbol < b.UnitSymbol })})
		}
	}
}

func (s *Store) notifyCategoriesLocked(household string) {
	for sub, h := range s.categorySubs {
		if h == household {
			sub.Publish(repository.Snapshot[models.Category]{Items: listByHousehold(s.categories, household, func(a, b models.Category) bool { return a.Name < b.Name })})
		}
	}
}

func (s *Store) notifySubcategoriesLocked(household string) {
	for sub, h := range s.subcategorySubs {
		if h == household {
			sub.Publish(repository.Snapshot[models.Subcategory]{Items: listByHousehold(s.subcategories, household, func(a, b models.Subcategory) bool { return a.Name < b.Name })})
		}
	}
}

func (s *Store) notifyProductsLocked(household string) {
	for sub, h := range s.productSubs {
		if h == household {
			sub.Publish(repository.Snapshot[models.Product]{Items: listByHousehold(s.products, household, func(a, b models.Product) bool { return a.Name < b.Name })})
		}
	}
}

func (s *Store) notifyCartLocked(household string) {
	for sub, h := range s.cartSubs {
		if h == household {
			sub.Publish(repository.Snapshot[models.CartLine]{Items: listByHousehold(s.cart, household, func(a, b models.CartLine) bool { return a.ID < b.ID })})
		}
	}
}

func (s *Store) notifyMovementsLocked(household string) {
	for sub, h := range s.movementSubs {
		if h == household {
			sub.Publish(repository.Snapshot[models.Movement]{Items: listByHousehold(s.movements, household, func(a, b models.Movement) bool { return a.ID < b.ID })})
		}
	}
}

func (s *Store) notifyAllLocked(household string) {
	s.notifySubcategoriesLocked(household)
	s.notifyProductsLocked(household)
	s.notifyCartLocked(household)
	s.notifyMovementsLocked(household)
}
