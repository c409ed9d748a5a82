package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	propertieserrors "innkeep/internal/properties/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Properties"

type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id string) (*model.Property, error)
	FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Property, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Update(ctx context.Context, id string, update bson.M) error
}

type mongoPropertyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPropertyRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if property.ID == "" {
		property.ID = primitive.NewObjectID().Hex()
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	property.CreatedAt = now
	property.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, property); err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var property model.Property
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, propertieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	return &property, nil
}

func (r *mongoPropertyRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Property, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []*model.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	return properties, nil
}

func (r *mongoPropertyRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// IDsByOwner projects just the ids, which is all the reservation side
// needs to scope a booking listing.
func (r *mongoPropertyRepository) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list property ids: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode property ids: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (r *mongoPropertyRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if result.MatchedCount == 0 {
		return propertieserrors.ErrNotFound
	}
	return nil
}
