// Package mongodb implements repository.Store on MongoDB. Transactions map
// to driver sessions, change feeds to change streams. Every query carries
// the householdId filter so no document leaks across tenants.
package mongodb

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

// Store is a MongoDB-backed document store.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	logger  *zap.Logger
	pending atomic.Int64
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// RunTransaction executes fn inside a session transaction. The driver
// retries transient conflicts; once it gives up the caller sees
// ErrTransactionFailed and may assume nothing was applied. Errors returned
// by fn itself pass through untouched.
func (s *Store) RunTransaction(ctx context.Context, household string, fn func(tx repository.Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("%w: start session: %v", repository.ErrTransactionFailed, err)
	}
	defer sess.EndSession(ctx)

	s.pending.Add(1)
	defer s.pending.Add(-1)

	var cbErr error
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		cbErr = nil
		tx := &mongoTx{store: s, sc: sc, household: household}
		if err := fn(tx); err != nil {
			cbErr = err
			return nil, err
		}
		return nil, tx.flush()
	})
	if cbErr != nil {
		return cbErr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrTransactionFailed, err)
	}
	return nil
}

// BatchWrite applies the ops atomically without a read precondition.
func (s *Store) BatchWrite(ctx context.Context, household string, ops ...repository.WriteOp) error {
	return s.RunTransaction(ctx, household, func(tx repository.Tx) error {
		tx.Apply(ops...)
		return nil
	})
}

// Households lists every tenant key present in the subcategories collection.
func (s *Store) Households(ctx context.Context) ([]string, error) {
	raw, err := s.db.Collection(repository.CollectionSubcategories).Distinct(ctx, "householdId", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct households: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if h, ok := v.(string); ok {
			out = append(out, h)
		}
	}
	return out, nil
}

// mongoTx reads through the session context and buffers writes until flush.
type mongoTx struct {
	store     *Store
	sc        mongo.SessionContext
	household string
	ops       []repository.WriteOp
}

func (t *mongoTx) Subcategory(id string) (models.Subcategory, error) {
	return txFindOne[models.Subcategory](t, repository.CollectionSubcategories, id)
}

func (t *mongoTx) Product(id string) (models.Product, error) {
	return txFindOne[models.Product](t, repository.CollectionProducts, id)
}

func (t *mongoTx) Movement(id string) (models.Movement, error) {
	return txFindOne[models.Movement](t, repository.CollectionMovements, id)
}

func (t *mongoTx) CartLines() ([]models.CartLine, error) {
	return txFindAll[models.CartLine](t, repository.CollectionCart, nil)
}

func (t *mongoTx) Measures() ([]models.Measure, error) {
	return txFindAll[models.Measure](t, repository.CollectionMeasures, nil)
}

func (t *mongoTx) Apply(ops ...repository.WriteOp) {
	t.ops = append(t.ops, ops...)
}

func (t *mongoTx) flush() error {
	for _, op := range t.ops {
		if err := t.applyOne(op); err != nil {
			return err
		}
	}
	return nil
}

func (t *mongoTx) applyOne(op repository.WriteOp) error {
	scope := func(id string) bson.D {
		return bson.D{{Key: "_id", Value: id}, {Key: "householdId", Value: t.household}}
	}

	switch o := op.(type) {
	case repository.SetStock:
		_, err := t.store.db.Collection(repository.CollectionSubcategories).
			UpdateOne(t.sc, scope(o.SubcategoryID), bson.D{{Key: "$set", Value: bson.D{{Key: "currentStock", Value: o.Value}}}})
		return err
	case repository.SetShoppingFlag:
		_, err := t.store.db.Collection(repository.CollectionSubcategories).
			UpdateOne(t.sc, scope(o.SubcategoryID), bson.D{{Key: "$set", Value: bson.D{{Key: "onShoppingList", Value: o.Value}}}})
		return err
	case repository.InsertMovement:
		mov := o.Movement
		if mov.ID == "" {
			mov.ID = uuid.NewString()
		}
		mov.HouseholdID = t.household
		_, err := t.store.db.Collection(repository.CollectionMovements).InsertOne(t.sc, mov)
		return err
	case repository.DeleteMovement:
		_, err := t.store.db.Collection(repository.CollectionMovements).DeleteOne(t.sc, scope(o.MovementID))
		return err
	case repository.DeleteCartLine:
		_, err := t.store.db.Collection(repository.CollectionCart).DeleteOne(t.sc, scope(o.CartLineID))
		return err
	case repository.SetProductPrice:
		_, err := t.store.db.Collection(repository.CollectionProducts).
			UpdateOne(t.sc, scope(o.ProductID), bson.D{{Key: "$set", Value: bson.D{{Key: "lastPrice", Value: o.UnitPrice}}}})
		return err
	default:
		return fmt.Errorf("unsupported write op %T", op)
	}
}

func txFindOne[T any](t *mongoTx, collection, id string) (T, error) {
	var out T
	filter := bson.D{{Key: "_id", Value: id}, {Key: "householdId", Value: t.household}}
	err := t.store.db.Collection(collection).FindOne(t.sc, filter).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return out, fmt.Errorf("%s %s: %w", collection, id, repository.ErrNotFound)
	}
	if err != nil {
		return out, fmt.Errorf("find %s %s: %w", collection, id, err)
	}
	return out, nil
}

func txFindAll[T any](t *mongoTx, collection string, sortDoc bson.D) ([]T, error) {
	opts := options.Find()
	if sortDoc != nil {
		opts.SetSort(sortDoc)
	}
	cur, err := t.store.db.Collection(collection).Find(t.sc, bson.D{{Key: "householdId", Value: t.household}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	var out []T
	if err := cur.All(t.sc, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return out, nil
}
