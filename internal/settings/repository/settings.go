package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	settingserrors "slotwise/internal/settings/errors"
	"slotwise/pkg/config"
	mongotx "slotwise/pkg/db/mongo"
	"slotwise/pkg/model"
)

const CollectionName = "Booking_settings"

type SettingsRepository interface {
	FindByAgent(ctx context.Context, agentID string) (*model.BookingSettings, error)
	Upsert(ctx context.Context, s *model.BookingSettings) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it is already a
// transaction SessionContext, which cannot be wrapped without breaking
// transaction semantics.
func (r *mongoSettingsRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSettingsRepository) FindByAgent(ctx context.Context, agentID string) (*model.BookingSettings, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var s model.BookingSettings
	err := r.collection.FindOne(ctx, bson.M{"agent_id": agentID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: agent %s", settingserrors.ErrNotFound, agentID)
		}
		return nil, fmt.Errorf("failed to find booking settings: %w", err)
	}
	return &s, nil
}

func (r *mongoSettingsRepository) Upsert(ctx context.Context, s *model.BookingSettings) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	s.UpdatedAt = now
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}

	update := bson.M{
		"$set": bson.M{
			"booking_type":         s.BookingType,
			"bookings_per_slot":    s.BookingsPerSlot,
			"meeting_duration_min": s.MeetingDurationMin,
			"buffer_min":           s.BufferMin,
			"lunch_start":          s.LunchStart,
			"lunch_end":            s.LunchEnd,
			"time_zone":            s.TimeZone,
			"locations":            s.Locations,
			"weekly_rules":         s.WeeklyRules,
			"updated_at":           s.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"agent_id":   s.AgentID,
			"created_at": s.CreatedAt,
		},
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"agent_id": s.AgentID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert booking settings: %w", err)
	}

	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSettingsRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
