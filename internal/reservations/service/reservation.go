package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationserrors "innkeep/internal/reservations/errors"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/availability"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReservationService coordinates every booking mutation: availability
// check, durable write, and index update happen under a per-property
// critical section, so two requests for the same property can never both
// see the calendar free.
type ReservationService interface {
	Create(ctx context.Context, ownerID string, booking *model.Booking) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Booking, error)
	ListForOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Transition(ctx context.Context, ownerID, id string, newStatus model.BookingStatus) (*model.Booking, error)
	Cancel(ctx context.Context, ownerID, id string) (*model.Booking, error)
	WarmIndex(ctx context.Context) error
}

type reservationService struct {
	cfg       *config.Config
	repo      repository.BookingRepository
	lockRepo  repository.PropertyLockRepository
	validator *validator.BookingValidator
	index     *availability.Index
	latch     *availability.Latch
	catalog   PropertyCatalog
	events    EventPublisher
}

func NewReservationService(
	cfg *config.Config,
	repo repository.BookingRepository,
	lockRepo repository.PropertyLockRepository,
	bookingValidator *validator.BookingValidator,
	index *availability.Index,
	latch *availability.Latch,
	catalog PropertyCatalog,
	events EventPublisher,
) ReservationService {
	return &reservationService{
		cfg:       cfg,
		repo:      repo,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		index:     index,
		latch:     latch,
		catalog:   catalog,
		events:    events,
	}
}

// WarmIndex rebuilds the availability index from the active rows of the
// ledger. Called once at startup before the service takes traffic.
func (s *reservationService) WarmIndex(ctx context.Context) error {
	active, err := s.repo.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active bookings: %w", err)
	}

	intervals := make([]availability.Interval, 0, len(active))
	for _, b := range active {
		intervals = append(intervals, availability.Interval{
			PropertyID: b.PropertyID,
			BookingID:  b.ID,
			Start:      b.CheckIn,
			End:        b.CheckOut,
		})
	}

	s.index.Rebuild(intervals)
	s.cfg.Log.Info("Availability index rebuilt", "active_bookings", len(intervals))
	return nil
}

func (s *reservationService) Create(ctx context.Context, ownerID string, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)

	if err := s.validator.ValidateDesiredStatus(booking.Status); err != nil {
		return translateValidationError(err)
	}

	booking.ID = uuid.NewString()

	if err := s.validator.Validate(booking); err != nil {
		return translateValidationError(err)
	}

	if err := s.authorizeProperty(ctx, ownerID, booking.PropertyID); err != nil {
		return err
	}

	// An inquiry never occupies the calendar, so it skips the critical
	// section entirely: no lock, no overlap check, no index entry.
	if booking.Status == model.StatusInquiry {
		if err := s.persistCreate(ctx, booking); err != nil {
			return err
		}
		s.publish(ctx, EventBookingCreated, booking)
		return nil
	}

	release, err := s.lockProperty(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	defer release()

	if s.index.Overlaps(booking.PropertyID, booking.CheckIn, booking.CheckOut) {
		return dateConflict(booking)
	}

	if err := s.persistCreate(ctx, booking); err != nil {
		return err
	}

	if err := s.index.Insert(booking.PropertyID, booking.ID, booking.CheckIn, booking.CheckOut); err != nil {
		// The ledger row exists but the index refused it, which means the
		// calendar moved underneath us despite the lock. Compensate by
		// cancelling the row so ledger and index agree again.
		s.cfg.Log.Error("Availability index rejected persisted booking, compensating",
			"booking_id", booking.ID,
			"property_id", booking.PropertyID,
			"error", err,
		)
		if _, cancelErr := s.repo.UpdateStatus(ctx, booking.ID, model.StatusCancelled); cancelErr != nil {
			s.cfg.Log.Error("Failed to cancel booking during compensation", "booking_id", booking.ID, "error", cancelErr)
		}
		return dateConflict(booking)
	}

	s.publish(ctx, EventBookingCreated, booking)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, ownerID, id string) (*model.Booking, error) {
	return s.getAuthorized(ctx, ownerID, id)
}

func (s *reservationService) ListForOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.Unauthorized("Authentication required")
	}

	propertyIDs, err := s.catalog.PropertyIDsForOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to resolve owner properties", err)
	}
	if len(propertyIDs) == 0 {
		return []*model.Booking{}, 0, nil
	}

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindByProperties(ctx, propertyIDs, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountByProperties(ctx, propertyIDs)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	return bookings, total, nil
}

func (s *reservationService) Transition(ctx context.Context, ownerID, id string, newStatus model.BookingStatus) (*model.Booking, error) {
	booking, err := s.getAuthorized(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	// Cancelling an already-cancelled booking succeeds without touching
	// anything. Every other repeat of a terminal state is an error.
	if booking.Status == model.StatusCancelled && newStatus == model.StatusCancelled {
		return booking, nil
	}

	release, err := s.lockProperty(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock: the status may have moved between the
	// authorization fetch and lock acquisition.
	booking, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLedgerError(err, id)
	}
	if booking.Status == model.StatusCancelled && newStatus == model.StatusCancelled {
		return booking, nil
	}

	effect, legal := transitionEffect(booking.Status, newStatus)
	if !legal {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(newStatus))
	}

	// Confirming an inquiry claims calendar dates for the first time, so
	// it gets the same overlap check as a fresh confirmed creation.
	if effect == effectInsert && s.index.Overlaps(booking.PropertyID, booking.CheckIn, booking.CheckOut) {
		return nil, dateConflict(booking)
	}

	var updatedAt time.Time
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var txErr error
		updatedAt, txErr = s.repo.UpdateStatus(sessCtx, id, newStatus)
		return txErr
	})
	if err != nil {
		return nil, mapLedgerError(err, id)
	}

	switch effect {
	case effectInsert:
		if insertErr := s.index.Insert(booking.PropertyID, booking.ID, booking.CheckIn, booking.CheckOut); insertErr != nil {
			s.cfg.Log.Error("Availability index rejected confirmed booking, compensating",
				"booking_id", booking.ID,
				"error", insertErr,
			)
			if _, cancelErr := s.repo.UpdateStatus(ctx, id, booking.Status); cancelErr != nil {
				s.cfg.Log.Error("Failed to revert booking status during compensation", "booking_id", id, "error", cancelErr)
			}
			return nil, dateConflict(booking)
		}
	case effectRemove:
		s.index.Remove(booking.PropertyID, booking.ID)
	}

	booking.Status = newStatus
	booking.UpdatedAt = updatedAt

	s.publish(ctx, eventTypeFor(newStatus), booking)
	return booking, nil
}

// Cancel is idempotent: cancelling an already-cancelled booking returns it
// unchanged with no error.
func (s *reservationService) Cancel(ctx context.Context, ownerID, id string) (*model.Booking, error) {
	return s.Transition(ctx, ownerID, id, model.StatusCancelled)
}

// getAuthorized fetches a booking and verifies the caller owns its
// property. Any booking the caller cannot see, whether missing or owned
// by another tenant, reports the same not-found error.
func (s *reservationService) getAuthorized(ctx context.Context, ownerID, id string) (*model.Booking, error) {
	if ownerID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLedgerError(err, id)
	}

	if err := s.authorizeProperty(ctx, ownerID, booking.PropertyID); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeUnauthorized {
			return nil, err
		}
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	return booking, nil
}

// lockProperty enters the property's critical section: first the
// in-process latch with a bounded wait, then the cross-process advisory
// lock. The returned release function undoes both.
func (s *reservationService) lockProperty(ctx context.Context, propertyID string) (func(), error) {
	latchCtx, cancel := context.WithTimeout(ctx, s.cfg.LatchWaitTimeout)
	defer cancel()

	if err := s.latch.Acquire(latchCtx, propertyID); err != nil {
		return nil, apperrors.Unavailable("reservations")
	}

	lockID := "property_lock_" + propertyID
	_, err := s.lockRepo.Create(ctx, &model.PropertyLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.PropertyLockTTL),
	})
	if err != nil {
		s.latch.Release(propertyID)
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Conflict("Property is being modified by another request, please retry")
		}
		return nil, apperrors.Internal("Failed to acquire property lock", err)
	}

	return func() {
		if delErr := s.lockRepo.Delete(ctx, lockID); delErr != nil {
			s.cfg.Log.Error("Failed to release property lock, TTL will reap it", "lock_id", lockID, "error", delErr)
		}
		s.latch.Release(propertyID)
	}, nil
}

func (s *reservationService) persistCreate(ctx context.Context, booking *model.Booking) error {
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		if errors.Is(err, reservationserrors.ErrDuplicateID) {
			return apperrors.Conflict("Booking already exists")
		}
		return apperrors.Internal("Failed to create booking", err)
	}
	return nil
}

func (s *reservationService) applyDefaults(booking *model.Booking) {
	if booking.Status == "" {
		booking.Status = model.StatusConfirmed
	}
	if booking.Source == "" {
		booking.Source = model.SourceDirect
	}
	booking.CheckIn = booking.CheckIn.UTC()
	booking.CheckOut = booking.CheckOut.UTC()
}

func (s *reservationService) sanitize(booking *model.Booking) {
	booking.Guest.Name = sanitizer.NormalizeName(booking.Guest.Name)
	booking.Guest.Email = sanitizer.NormalizeEmail(booking.Guest.Email)
	booking.Guest.Phone = sanitizer.NormalizePhone(booking.Guest.Phone)
	booking.Source = sanitizer.NormalizeSource(booking.Source)
}

func dateConflict(booking *model.Booking) *apperrors.AppError {
	return apperrors.Conflict("Requested dates overlap an existing booking").WithDetails(map[string]any{
		"property_id": booking.PropertyID,
		"check_in":    booking.CheckIn,
		"check_out":   booking.CheckOut,
	})
}

func mapLedgerError(err error, id string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Internal("Booking store operation failed", err)
}

func translateValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]any, len(validationErrs))
		for _, ve := range validationErrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Booking validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}
