package handler

import (
	"encoding/json"
	"net/http"

	"innkeep/internal/reservations/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service   service.ReservationService
	log       *logger.Logger
	jwtSecret string
}

func NewBookingHandler(svc service.ReservationService, jwtSecret string, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   svc,
		log:       log,
		jwtSecret: jwtSecret,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), ownerID, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	bookings, total, err := h.service.ListForOwner(r.Context(), ownerID, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), ownerID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

type statusChangeRequest struct {
	Status model.BookingStatus `json:"status"`
}

func (h *BookingHandler) TransitionStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	var req statusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "TransitionStatus", apperrors.InvalidInput("Invalid request body"))
		return
	}
	if req.Status == "" {
		h.writeError(w, "TransitionStatus", apperrors.InvalidInput("status is required"))
		return
	}

	booking, err := h.service.Transition(r.Context(), ownerID, ps.ByName("id"), req.Status)
	if err != nil {
		h.writeError(w, "TransitionStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "TransitionStatus", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	booking, err := h.service.Cancel(r.Context(), ownerID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	auth := middleware.RequireAuth(h.jwtSecret, h.log)

	router.POST("/api/v1/bookings", auth(h.Create))
	router.GET("/api/v1/bookings", auth(h.List))
	router.GET("/api/v1/bookings/id/:id", auth(h.GetByID))
	router.PATCH("/api/v1/bookings/id/:id/status", auth(h.TransitionStatus))
	router.POST("/api/v1/bookings/id/:id/cancel", auth(h.Cancel))
}
