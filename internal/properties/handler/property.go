package handler

import (
	"encoding/json"
	"net/http"

	"innkeep/internal/properties/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PropertyHandler struct {
	service   service.PropertyService
	log       *logger.Logger
	jwtSecret string
}

func NewPropertyHandler(svc service.PropertyService, jwtSecret string, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service:   svc,
		log:       log,
		jwtSecret: jwtSecret,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	var property model.Property
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), ownerID, &property); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, property); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	properties, total, err := h.service.ListForOwner(r.Context(), ownerID, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, properties, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	property, err := h.service.GetByID(r.Context(), ownerID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	var update model.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	property, err := h.service.Update(r.Context(), ownerID, ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID, _ := middleware.OwnerFromContext(r.Context())

	if err := h.service.Delete(r.Context(), ownerID, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PropertyHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	auth := middleware.RequireAuth(h.jwtSecret, h.log)

	router.POST("/api/v1/properties", auth(h.Create))
	router.GET("/api/v1/properties", auth(h.List))
	router.GET("/api/v1/properties/id/:id", auth(h.GetByID))
	router.PATCH("/api/v1/properties/id/:id", auth(h.Update))
	router.DELETE("/api/v1/properties/id/:id", auth(h.Delete))
}
