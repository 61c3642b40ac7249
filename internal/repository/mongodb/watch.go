package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

func (s *Store) WatchMeasures(ctx context.Context, household string) (*repository.Subscription[models.Measure], error) {
	return watch[models.Measure](ctx, s, repository.CollectionMeasures, household, sortByUnit)
}

func (s *Store) WatchCategories(ctx context.Context, household string) (*repository.Subscription[models.Category], error) {
	return watch[models.Category](ctx, s, repository.CollectionCategories, household, sortByName)
}

func (s *Store) WatchSubcategories(ctx context.Context, household string) (*repository.Subscription[models.Subcategory], error) {
	return watch[models.Subcategory](ctx, s, repository.CollectionSubcategories, household, sortByName)
}

func (s *Store) WatchProducts(ctx context.Context, household string) (*repository.Subscription[models.Product], error) {
	return watch[models.Product](ctx, s, repository.CollectionProducts, household, sortByName)
}

func (s *Store) WatchCartLines(ctx context.Context, household string) (*repository.Subscription[models.CartLine], error) {
	return watch[models.CartLine](ctx, s, repository.CollectionCart, household, nil)
}

func (s *Store) WatchMovements(ctx context.Context, household string) (*repository.Subscription[models.Movement], error) {
	return watch[models.Movement](ctx, s, repository.CollectionMovements, household, sortByDate)
}

// watch opens a change stream on the collection and re-lists the household's
// documents after every observed change, mirroring snapshot-per-change
// delivery. Delete events carry no full document, so the pipeline lets them
// through unconditionally; the re-list filters by household anyway.
func watch[T any](ctx context.Context, s *Store, collection, household string, sortDoc bson.D) (*repository.Subscription[T], error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "fullDocument.householdId", Value: household}},
			bson.D{{Key: "operationType", Value: "delete"}},
		}}}}},
	}
	streamOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := s.db.Collection(collection).Watch(ctx, pipeline, streamOpts)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	sub := repository.NewSubscription[T](func() {
		cancel()
		<-done
	})

	go func() {
		defer close(done)
		defer func() { _ = stream.Close(context.Background()) }()

		publish := func() {
			items, err := listAll[T](wctx, s, collection, household, sortDoc)
			if err != nil {
				if wctx.Err() == nil {
					s.logger.Warn("change feed re-list failed",
						zap.String("collection", collection), zap.Error(err))
				}
				return
			}
			sub.Publish(repository.Snapshot[T]{
				Items:         items,
				PendingWrites: s.pending.Load() > 0,
			})
		}

		publish()
		for stream.Next(wctx) {
			publish()
		}
		if err := stream.Err(); err != nil && wctx.Err() == nil {
			s.logger.Error("change stream terminated",
				zap.String("collection", collection), zap.Error(err))
		}
	}()

	return sub, nil
}
