package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"innkeep/pkg/auth"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	testSecret  = "test-signing-secret"
	testOwnerID = "64f1a2b3c4d5e6f7a8b9c0d1"
)

type mockReservationService struct {
	createFn     func(ctx context.Context, ownerID string, booking *model.Booking) error
	getByIDFn    func(ctx context.Context, ownerID, id string) (*model.Booking, error)
	transitionFn func(ctx context.Context, ownerID, id string, newStatus model.BookingStatus) (*model.Booking, error)
	cancelFn     func(ctx context.Context, ownerID, id string) (*model.Booking, error)
}

func (m *mockReservationService) Create(ctx context.Context, ownerID string, booking *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, booking)
	}
	return nil
}

func (m *mockReservationService) GetByID(ctx context.Context, ownerID, id string) (*model.Booking, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, ownerID, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockReservationService) ListForOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockReservationService) Transition(ctx context.Context, ownerID, id string, newStatus model.BookingStatus) (*model.Booking, error) {
	if m.transitionFn != nil {
		return m.transitionFn(ctx, ownerID, id, newStatus)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockReservationService) Cancel(ctx context.Context, ownerID, id string) (*model.Booking, error) {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, ownerID, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockReservationService) WarmIndex(ctx context.Context) error {
	return nil
}

func newTestRouter(svc *mockReservationService) *httprouter.Router {
	log := logger.New(logger.Config{Output: io.Discard})
	router := httprouter.New()
	NewBookingHandler(svc, testSecret, log).RegisterRoutes(router)
	return router
}

func authHeader(t *testing.T) string {
	t.Helper()
	token, _, err := auth.NewAccessToken(testSecret, testOwnerID, "ada@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return "Bearer " + token
}

func TestCreateRequiresAuth(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestCreatePassesOwnerFromToken(t *testing.T) {
	var receivedOwner string
	svc := &mockReservationService{
		createFn: func(ctx context.Context, ownerID string, booking *model.Booking) error {
			receivedOwner = ownerID
			booking.ID = "9f7c2b1a-0000-4000-8000-000000000000"
			return nil
		},
	}
	router := newTestRouter(svc)

	body, _ := json.Marshal(model.Booking{PropertyID: "507f1f77bcf86cd799439011"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBuffer(body))
	req.Header.Set("Authorization", authHeader(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if receivedOwner != testOwnerID {
		t.Errorf("service received owner %q, want %q", receivedOwner, testOwnerID)
	}

	var response httputil.SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
}

func TestCreateMapsConflictTo409(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(ctx context.Context, ownerID string, booking *model.Booking) error {
			return apperrors.Conflict("Requested dates overlap an existing booking")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(`{"property_id":"507f1f77bcf86cd799439011"}`))
	req.Header.Set("Authorization", authHeader(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var response httputil.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if response.Code != apperrors.CodeConflict {
		t.Errorf("error code = %q, want %q", response.Code, apperrors.CodeConflict)
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", authHeader(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransitionStatusRequiresStatus(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/abc/status", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", authHeader(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing status, got %d", rec.Code)
	}
}

func TestCancelReturnsBooking(t *testing.T) {
	svc := &mockReservationService{
		cancelFn: func(ctx context.Context, ownerID, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/abc/cancel", nil)
	req.Header.Set("Authorization", authHeader(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if response.Data.Status != model.StatusCancelled {
		t.Errorf("status = %s, want cancelled", response.Data.Status)
	}
}
