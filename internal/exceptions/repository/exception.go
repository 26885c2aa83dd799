package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/pkg/config"
	mongotx "slotwise/pkg/db/mongo"
	"slotwise/pkg/model"
)

const CollectionName = "Date_exceptions"

type ExceptionRepository interface {
	FindByAgent(ctx context.Context, agentID string) ([]*model.DateException, error)
	Upsert(ctx context.Context, exc *model.DateException) error
	DeleteByDate(ctx context.Context, agentID string, date string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoExceptionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoExceptionRepository(cfg *config.Config) ExceptionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExceptionRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoExceptionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoExceptionRepository) FindByAgent(ctx context.Context, agentID string) ([]*model.DateException, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"agent_id": agentID})
	if err != nil {
		return nil, fmt.Errorf("failed to query date exceptions: %w", err)
	}
	defer cursor.Close(ctx)

	var exceptions []*model.DateException
	if err = cursor.All(ctx, &exceptions); err != nil {
		return nil, fmt.Errorf("failed to decode date exceptions: %w", err)
	}
	return exceptions, nil
}

// Upsert writes the exception keyed on (agent_id, date); one override per date.
func (r *mongoExceptionRepository) Upsert(ctx context.Context, exc *model.DateException) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"all_day":    exc.AllDay,
			"start_time": exc.StartTime,
			"end_time":   exc.EndTime,
		},
		"$setOnInsert": bson.M{
			"agent_id":   exc.AgentID,
			"date":       exc.Date,
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"agent_id": exc.AgentID, "date": exc.Date},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert date exception: %w", err)
	}
	return nil
}

// DeleteByDate removes the override for a date, reverting it to the weekly
// rule. Deleting an absent override is not an error.
func (r *mongoExceptionRepository) DeleteByDate(ctx context.Context, agentID string, date string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"agent_id": agentID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete date exception: %w", err)
	}
	return nil
}

func (r *mongoExceptionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
