package service

import (
	"context"
	"errors"
	"time"

	propertieserrors "innkeep/internal/properties/errors"
	"innkeep/internal/properties/repository"
	apperrors "innkeep/pkg/errors"

	"github.com/karlseguin/ccache/v3"
)

// Catalog is the read-through ownership lookup the reservation engine
// uses on every request. Ownership changes hands rarely, so both lookups
// sit behind a short-TTL in-process cache; writes on the property side
// invalidate eagerly.
type Catalog struct {
	repo     repository.PropertyRepository
	owners   *ccache.Cache[string]
	ownerIDs *ccache.Cache[[]string]
	ttl      time.Duration
}

func NewCatalog(repo repository.PropertyRepository, maxSize int64, ttl time.Duration) *Catalog {
	return &Catalog{
		repo:     repo,
		owners:   ccache.New(ccache.Configure[string]().MaxSize(maxSize)),
		ownerIDs: ccache.New(ccache.Configure[[]string]().MaxSize(maxSize)),
		ttl:      ttl,
	}
}

// GetOwner returns the owner id of a property. Missing properties are
// reported with a not-found error and are not cached, so a property
// created moments later is visible immediately.
func (c *Catalog) GetOwner(ctx context.Context, propertyID string) (string, error) {
	if item := c.owners.Get(propertyID); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	property, err := c.repo.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return "", apperrors.NotFoundWithID("Property", propertyID)
		}
		return "", err
	}

	c.owners.Set(propertyID, property.OwnerID, c.ttl)
	return property.OwnerID, nil
}

func (c *Catalog) PropertyIDsForOwner(ctx context.Context, ownerID string) ([]string, error) {
	if item := c.ownerIDs.Get(ownerID); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	ids, err := c.repo.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.ownerIDs.Set(ownerID, ids, c.ttl)
	return ids, nil
}

func (c *Catalog) Invalidate(propertyID string) {
	c.owners.Delete(propertyID)
}

func (c *Catalog) InvalidateOwner(ownerID string) {
	c.ownerIDs.Delete(ownerID)
}
