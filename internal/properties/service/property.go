package service

import (
	"context"
	"errors"
	"sync"

	propertieserrors "innkeep/internal/properties/errors"
	"innkeep/internal/properties/repository"
	"innkeep/internal/properties/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

// PropertyService manages the catalog of rentable units. Every operation
// is scoped to the calling owner; a property belonging to someone else is
// reported as missing.
type PropertyService interface {
	Create(ctx context.Context, ownerID string, property *model.Property) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Property, error)
	ListForOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Property, int64, error)
	Update(ctx context.Context, ownerID, id string, update *model.PropertyUpdate) (*model.Property, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type propertyService struct {
	cfg       *config.Config
	repo      repository.PropertyRepository
	validator *validator.PropertyValidator
	catalog   *Catalog
}

func NewPropertyService(cfg *config.Config, repo repository.PropertyRepository, propertyValidator *validator.PropertyValidator, catalog *Catalog) PropertyService {
	return &propertyService{
		cfg:       cfg,
		repo:      repo,
		validator: propertyValidator,
		catalog:   catalog,
	}
}

func (s *propertyService) Create(ctx context.Context, ownerID string, property *model.Property) error {
	if ownerID == "" {
		return apperrors.Unauthorized("Authentication required")
	}

	property.OwnerID = ownerID
	if property.Status == "" {
		property.Status = model.PropertyActive
	}
	property.Name = sanitizer.NormalizeName(property.Name)
	property.Address = sanitizer.NormalizeAddress(property.Address)
	property.City = sanitizer.NormalizeName(property.City)

	if err := s.validator.Validate(property); err != nil {
		return validationError(err)
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return apperrors.Internal("Failed to create property", err)
	}

	s.catalog.InvalidateOwner(ownerID)
	return nil
}

func (s *propertyService) GetByID(ctx context.Context, ownerID, id string) (*model.Property, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *propertyService) ListForOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Property, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.Unauthorized("Authentication required")
	}

	var (
		wg         sync.WaitGroup
		properties []*model.Property
		total      int64
		findErr    error
		countErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		properties, findErr = s.repo.FindByOwner(ctx, ownerID, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountByOwner(ctx, ownerID)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list properties", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count properties", countErr)
	}
	if properties == nil {
		properties = []*model.Property{}
	}

	return properties, total, nil
}

func (s *propertyService) Update(ctx context.Context, ownerID, id string, update *model.PropertyUpdate) (*model.Property, error) {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, validationError(err)
	}

	fields := bson.M{}
	if update.Name != "" {
		fields["name"] = sanitizer.NormalizeName(update.Name)
	}
	if update.Address != "" {
		fields["address"] = sanitizer.NormalizeAddress(update.Address)
	}
	if update.City != "" {
		fields["city"] = sanitizer.NormalizeName(update.City)
	}
	if update.MaxGuests != nil {
		fields["max_guests"] = *update.MaxGuests
	}
	if update.NightlyPrice != nil {
		fields["nightly_price"] = *update.NightlyPrice
	}
	if update.Status != "" {
		fields["status"] = update.Status
	}
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		return nil, apperrors.Internal("Failed to update property", err)
	}

	s.catalog.Invalidate(id)
	s.catalog.InvalidateOwner(ownerID)

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to reload property", err)
	}
	return property, nil
}

// Delete deactivates a property. Bookings reference properties by id, so
// rows are never removed; an inactive property just stops appearing as
// bookable inventory.
func (s *propertyService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, bson.M{"status": model.PropertyInactive}); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Property", id)
		}
		return apperrors.Internal("Failed to deactivate property", err)
	}

	s.catalog.Invalidate(id)
	s.catalog.InvalidateOwner(ownerID)
	return nil
}

func (s *propertyService) getOwned(ctx context.Context, ownerID, id string) (*model.Property, error) {
	if ownerID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		return nil, apperrors.Internal("Failed to find property", err)
	}

	// Same answer for missing and foreign properties.
	if property.OwnerID != ownerID {
		return nil, apperrors.NotFoundWithID("Property", id)
	}

	return property, nil
}

func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]any, len(validationErrs))
		for _, ve := range validationErrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Property validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}
