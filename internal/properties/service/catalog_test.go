package service

import (
	"context"
	"testing"
	"time"

	propertieserrors "innkeep/internal/properties/errors"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type mockPropertyRepository struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Property, error)
	idsByOwnerFn func(ctx context.Context, ownerID string) ([]string, error)
	updateFn     func(ctx context.Context, id string, update bson.M) error

	findByIDCalls   int
	idsByOwnerCalls int
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	return nil
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	m.findByIDCalls++
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, propertieserrors.ErrNotFound
}

func (m *mockPropertyRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return 0, nil
}

func (m *mockPropertyRepository) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	m.idsByOwnerCalls++
	if m.idsByOwnerFn != nil {
		return m.idsByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, id string, update bson.M) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, update)
	}
	return nil
}

func TestCatalogGetOwnerCaches(t *testing.T) {
	repo := &mockPropertyRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return &model.Property{ID: id, OwnerID: "owner-1"}, nil
		},
	}
	catalog := NewCatalog(repo, 100, time.Minute)

	for i := 0; i < 3; i++ {
		owner, err := catalog.GetOwner(context.Background(), "prop-1")
		if err != nil {
			t.Fatalf("GetOwner failed: %v", err)
		}
		if owner != "owner-1" {
			t.Errorf("expected owner-1, got %s", owner)
		}
	}

	if repo.findByIDCalls != 1 {
		t.Errorf("expected a single repository hit, got %d", repo.findByIDCalls)
	}
}

func TestCatalogDoesNotCacheMisses(t *testing.T) {
	repo := &mockPropertyRepository{}
	catalog := NewCatalog(repo, 100, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := catalog.GetOwner(context.Background(), "nope")
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	}

	if repo.findByIDCalls != 2 {
		t.Errorf("misses must not be cached, got %d repository hits", repo.findByIDCalls)
	}
}

func TestCatalogInvalidate(t *testing.T) {
	owner := "owner-1"
	repo := &mockPropertyRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Property, error) {
			return &model.Property{ID: id, OwnerID: owner}, nil
		},
	}
	catalog := NewCatalog(repo, 100, time.Minute)

	if _, err := catalog.GetOwner(context.Background(), "prop-1"); err != nil {
		t.Fatalf("GetOwner failed: %v", err)
	}

	owner = "owner-2"
	catalog.Invalidate("prop-1")

	got, err := catalog.GetOwner(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("GetOwner failed: %v", err)
	}
	if got != "owner-2" {
		t.Errorf("expected refreshed owner-2, got %s", got)
	}
}

func TestCatalogPropertyIDsForOwner(t *testing.T) {
	repo := &mockPropertyRepository{
		idsByOwnerFn: func(ctx context.Context, ownerID string) ([]string, error) {
			return []string{"p1", "p2"}, nil
		},
	}
	catalog := NewCatalog(repo, 100, time.Minute)

	for i := 0; i < 3; i++ {
		ids, err := catalog.PropertyIDsForOwner(context.Background(), "owner-1")
		if err != nil {
			t.Fatalf("PropertyIDsForOwner failed: %v", err)
		}
		if len(ids) != 2 {
			t.Errorf("expected 2 ids, got %d", len(ids))
		}
	}

	if repo.idsByOwnerCalls != 1 {
		t.Errorf("expected a single repository hit, got %d", repo.idsByOwnerCalls)
	}
}
