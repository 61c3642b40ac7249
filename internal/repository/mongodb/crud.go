package mongodb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

func scope(household, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "householdId", Value: household}}
}

func (s *Store) insert(ctx context.Context, collection string, doc any) error {
	s.pending.Add(1)
	defer s.pending.Add(-1)
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	return nil
}

func (s *Store) replace(ctx context.Context, collection, household, id string, doc any) error {
	s.pending.Add(1)
	defer s.pending.Add(-1)
	res, err := s.db.Collection(collection).ReplaceOne(ctx, scope(household, id), doc)
	if err != nil {
		return fmt.Errorf("replace %s %s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", collection, id, repository.ErrNotFound)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, collection, household, id string) error {
	s.pending.Add(1)
	defer s.pending.Add(-1)
	res, err := s.db.Collection(collection).DeleteOne(ctx, scope(household, id))
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", collection, id, repository.ErrNotFound)
	}
	return nil
}

func getOne[T any](ctx context.Context, s *Store, collection, household, id string) (T, error) {
	var out T
	err := s.db.Collection(collection).FindOne(ctx, scope(household, id)).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return out, fmt.Errorf("%s %s: %w", collection, id, repository.ErrNotFound)
	}
	if err != nil {
		return out, fmt.Errorf("find %s %s: %w", collection, id, err)
	}
	return out, nil
}

func listAll[T any](ctx context.Context, s *Store, collection, household string, sortDoc bson.D) ([]T, error) {
	opts := options.Find()
	if sortDoc != nil {
		opts.SetSort(sortDoc)
	}
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{{Key: "householdId", Value: household}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return out, nil
}

var (
	sortByName = bson.D{{Key: "name", Value: 1}}
	sortByUnit = bson.D{{Key: "measureUnit", Value: 1}}
	sortByDate = bson.D{{Key: "dateTime", Value: -1}}
)

func (s *Store) InsertMeasure(ctx context.Context, m models.Measure) (models.Measure, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return m, s.insert(ctx, repository.CollectionMeasures, m)
}

func (s *Store) UpdateMeasure(ctx context.Context, m models.Measure) error {
	return s.replace(ctx, repository.CollectionMeasures, m.HouseholdID, m.ID, m)
}

func (s *Store) DeleteMeasure(ctx context.Context, household, id string) error {
	return s.delete(ctx, repository.CollectionMeasures, household, id)
}

func (s *Store) GetMeasure(ctx context.Context, household, id string) (models.Measure, error) {
	return getOne[models.Measure](ctx, s, repository.CollectionMeasures, household, id)
}

func (s *Store) ListMeasures(ctx context.Context, household string) ([]models.Measure, error) {
	return listAll[models.Measure](ctx, s, repository.CollectionMeasures, household, sortByUnit)
}

func (s *Store) InsertCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c, s.insert(ctx, repository.CollectionCategories, c)
}

func (s *Store) UpdateCategory(ctx context.Context, c models.Category) error {
	return s.replace(ctx, repository.CollectionCategories, c.HouseholdID, c.ID, c)
}

func (s *Store) DeleteCategory(ctx context.Context, household, id string) error {
	return s.delete(ctx, repository.CollectionCategories, household, id)
}

func (s *Store) ListCategories(ctx context.Context, household string) ([]models.Category, error) {
	return listAll[models.Category](ctx, s, repository.CollectionCategories, household, sortByName)
}

func (s *Store) InsertSubcategory(ctx context.Context, sub models.Subcategory) (models.Subcategory, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	return sub, s.insert(ctx, repository.CollectionSubcategories, sub)
}

func (s *Store) UpdateSubcategory(ctx context.Context, sub models.Subcategory) error {
	return s.replace(ctx, repository.CollectionSubcategories, sub.HouseholdID, sub.ID, sub)
}

func (s *Store) DeleteSubcategory(ctx context.Context, household, id string) error {
	return s.delete(ctx, repository.CollectionSubcategories, household, id)
}

func (s *Store) GetSubcategory(ctx context.Context, household, id string) (models.Subcategory, error) {
	return getOne[models.Subcategory](ctx, s, repository.CollectionSubcategories, household, id)
}

func (s *Store) ListSubcategories(ctx context.Context, household string) ([]models.Subcategory, error) {
	return listAll[models.Subcategory](ctx, s, repository.CollectionSubcategories, household, sortByName)
}

func (s *Store) InsertProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p, s.insert(ctx, repository.CollectionProducts, p)
}

func (s *Store) UpdateProduct(ctx context.Context, p models.Product) error {
	return s.replace(ctx, repository.CollectionProducts, p.HouseholdID, p.ID, p)
}

func (s *Store) DeleteProduct(ctx context.Context, household, id string) error {
	return s.delete(ctx, repository.CollectionProducts, household, id)
}

func (s *Store) GetProduct(ctx context.Context, household, id string) (models.Product, error) {
	return getOne[models.Product](ctx, s, repository.CollectionProducts, household, id)
}

func (s *Store) ListProducts(ctx context.Context, household string) ([]models.Product, error) {
	return listAll[models.Product](ctx, s, repository.CollectionProducts, household, sortByName)
}

func (s *Store) InsertCartLine(ctx context.Context, l models.CartLine) (models.CartLine, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return l, s.insert(ctx, repository.CollectionCart, l)
}

func (s *Store) UpdateCartLine(ctx context.Context, l models.CartLine) error {
	return s.replace(ctx, repository.CollectionCart, l.HouseholdID, l.ID, l)
}

func (s *Store) DeleteCartLine(ctx context.Context, household, id string) error {
	return s.delete(ctx, repository.CollectionCart, household, id)
}

func (s *Store) GetCartLine(ctx context.Context, household, id string) (models.CartLine, error) {
	return getOne[models.CartLine](ctx, s, repository.CollectionCart, household, id)
}

func (s *Store) ListCartLines(ctx context.Context, household string) ([]models.CartLine, error) {
	return listAll[models.CartLine](ctx, s, repository.CollectionCart, household, nil)
}

func (s *Store) GetMovement(ctx context.Context, household, id string) (models.Movement, error) {
	return getOne[models.Movement](ctx, s, repository.CollectionMovements, household, id)
}

func (s *Store) ListMovements(ctx context.Context, household string) ([]models.Movement, error) {
	return listAll[models.Movement](ctx, s, repository.CollectionMovements, household, sortByDate)
}
