package service

import (
	"context"
	"errors"

	apperrors "innkeep/pkg/errors"
)

// PropertyCatalog is the narrow read surface the reservation engine needs
// from the property service: existence, ownership, and the set of
// properties an owner can list bookings for.
type PropertyCatalog interface {
	// GetOwner returns the owner id of a property, or an error carrying
	// apperrors.CodeNotFound when the property does not exist.
	GetOwner(ctx context.Context, propertyID string) (string, error)

	PropertyIDsForOwner(ctx context.Context, ownerID string) ([]string, error)
}

// authorizeProperty checks that the caller owns the property. A property
// owned by someone else reports not-found, never forbidden: the engine
// must not leak which property ids exist in other tenants.
func (s *reservationService) authorizeProperty(ctx context.Context, ownerID, propertyID string) error {
	if ownerID == "" {
		return apperrors.Unauthorized("Authentication required")
	}

	actualOwner, err := s.catalog.GetOwner(ctx, propertyID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			return apperrors.NotFoundWithID("Property", propertyID)
		}
		return apperrors.Internal("Failed to resolve property owner", err)
	}

	if actualOwner != ownerID {
		return apperrors.NotFoundWithID("Property", propertyID)
	}

	return nil
}
