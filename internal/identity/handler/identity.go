package handler

import (
	"encoding/json"
	"net/http"

	"innkeep/internal/identity/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type IdentityHandler struct {
	service service.IdentityService
	log     *logger.Logger
}

func NewIdentityHandler(svc service.IdentityService, log *logger.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: svc,
		log:     log,
	}
}

func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var registration model.Registration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		h.writeError(w, "Register", apperrors.InvalidInput("Invalid request body"))
		return
	}

	owner, err := h.service.Register(r.Context(), &registration)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, owner); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "error", err)
	}
}

func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var credentials model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid request body"))
		return
	}

	session, err := h.service.Login(r.Context(), &credentials)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *IdentityHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *IdentityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/owners", h.Register)
	router.POST("/api/v1/sessions", h.Login)
}
