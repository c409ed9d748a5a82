package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	identityerrors "innkeep/internal/identity/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Owners"

type OwnerRepository interface {
	Create(ctx context.Context, owner *model.Owner) error
	FindByEmail(ctx context.Context, email string) (*model.Owner, error)
	FindByID(ctx context.Context, id string) (*model.Owner, error)
}

type mongoOwnerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoOwnerRepository(cfg *config.Config) OwnerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOwnerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoOwnerRepository) Create(ctx context.Context, owner *model.Owner) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if owner.ID == "" {
		owner.ID = primitive.NewObjectID().Hex()
	}
	owner.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	// Relies on the unique index on email.
	if _, err := r.collection.InsertOne(ctx, owner); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identityerrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create owner: %w", err)
	}
	return nil
}

func (r *mongoOwnerRepository) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var owner model.Owner
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, identityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find owner by email: %w", err)
	}

	return &owner, nil
}

func (r *mongoOwnerRepository) FindByID(ctx context.Context, id string) (*model.Owner, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var owner model.Owner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, identityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	return &owner, nil
}
