package service

import (
	"context"
	"io"
	"testing"
	"time"

	"innkeep/internal/properties/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	ownerID      = "64f1a2b3c4d5e6f7a8b9c0d1"
	otherOwnerID = "64f1a2b3c4d5e6f7a8b9c0d2"
	propertyID   = "507f1f77bcf86cd799439011"
)

func newTestPropertyService(repo *mockPropertyRepository) PropertyService {
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewPropertyService(cfg, repo, validator.NewPropertyValidator(cfg.Log), NewCatalog(repo, 100, time.Minute))
}

func ownedProperty() *model.Property {
	return &model.Property{
		ID:      propertyID,
		OwnerID: ownerID,
		Name:    "Seaside Cottage",
		Status:  model.PropertyActive,
	}
}

func TestDeleteDeactivatesProperty(t *testing.T) {
	var captured bson.M
	repo := &mockPropertyRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return ownedProperty(), nil
		},
		updateFn: func(ctx context.Context, id string, update bson.M) error {
			captured = update
			return nil
		},
	}
	svc := newTestPropertyService(repo)

	if err := svc.Delete(context.Background(), ownerID, propertyID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if captured == nil {
		t.Fatal("expected an update to be written")
	}
	if captured["status"] != model.PropertyInactive {
		t.Errorf("delete must set status=inactive, got %v", captured["status"])
	}
}

func TestDeleteForeignPropertyReportsNotFound(t *testing.T) {
	updated := false
	repo := &mockPropertyRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return ownedProperty(), nil
		},
		updateFn: func(ctx context.Context, id string, update bson.M) error {
			updated = true
			return nil
		},
	}
	svc := newTestPropertyService(repo)

	err := svc.Delete(context.Background(), otherOwnerID, propertyID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found for a foreign caller, got %v", err)
	}
	if updated {
		t.Error("foreign delete must not touch the property")
	}
}

func TestDeleteRequiresAuthentication(t *testing.T) {
	svc := newTestPropertyService(&mockPropertyRepository{})

	err := svc.Delete(context.Background(), "", propertyID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
