package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "innkeep/internal/reservations/errors"
	"innkeep/pkg/config"
	mongotx "innkeep/pkg/db/mongo"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// activeStatuses are the statuses that occupy the availability index.
var activeStatuses = []model.BookingStatus{model.StatusConfirmed, model.StatusCheckedIn}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

// BookingRepository is the durable ledger of booking records. Records are
// only ever inserted and status-updated; nothing here deletes.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Booking, error)
	FindByProperties(ctx context.Context, propertyIDs []string, limit int, offset int64) ([]*model.Booking, error)
	CountByProperties(ctx context.Context, propertyIDs []string) (int64, error)
	FindActive(ctx context.Context) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (time.Time, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as wrapping a SessionContext would
// break transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", reservationserrors.ErrDuplicateID, booking.ID)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Booking, error) {
	return r.findFiltered(ctx, bson.M{"property_id": propertyID}, limit, offset)
}

func (r *mongoBookingRepository) FindByProperties(ctx context.Context, propertyIDs []string, limit int, offset int64) ([]*model.Booking, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	return r.findFiltered(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs}}, limit, offset)
}

func (r *mongoBookingRepository) findFiltered(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByProperties(ctx context.Context, propertyIDs []string) (int64, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs}})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// FindActive returns every booking whose status occupies the availability
// index, across all properties. Used to rebuild the index at startup.
func (r *mongoBookingRepository) FindActive(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"status": bson.M{"$in": activeStatuses}})
	if err != nil {
		return nil, fmt.Errorf("failed to find active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus stamps the row and returns the stamped time so callers can
// report exactly what was persisted.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (time.Time, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		return time.Time{}, reservationserrors.ErrNotFound
	}

	return now, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
