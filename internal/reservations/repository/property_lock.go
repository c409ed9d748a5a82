package repository

import (
	"context"
	"innkeep/pkg/config"
	"innkeep/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PropertyLockRepository provides advisory locks guarding a property's
// availability section across processes. Acquisition relies on the unique
// _id constraint: a second insert with the same lock id fails with a
// duplicate key error. A TTL index on expires_at reaps abandoned locks.
type PropertyLockRepository interface {
	Create(ctx context.Context, lock *model.PropertyLock) (*model.PropertyLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoPropertyLockRepository struct {
	collection *mongo.Collection
}

const LockCollectionName = "Property_locks"

func NewPropertyLockRepository(cfg *config.Config) PropertyLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Returns a duplicate key error if the lock is already held.
func (r *mongoPropertyLockRepository) Create(ctx context.Context, lock *model.PropertyLock) (*model.PropertyLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoPropertyLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
