package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/http/middleware"
	"github.com/campustix/campustix/internal/http/response"
	"github.com/campustix/campustix/internal/service"
	"github.com/campustix/campustix/pkg/auth"
)

type RegistrationHandler struct {
	registrations service.RegistrationService
	signer        *auth.Signer
}

func NewRegistrationHandler(registrations service.RegistrationService, signer *auth.Signer) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, signer: signer}
}

func (h *RegistrationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(h.signer, domain.RoleStudent))
	r.Get("/", h.listMine)
	r.Get("/{eventId}/status", h.status)
	return r
}

func (h *RegistrationHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	regs, err := h.registrations.ListMine(r.Context(), claims.Sub)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"registrations": regs})
}

func (h *RegistrationHandler) status(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	status, err := h.registrations.StatusFor(r.Context(), claims.Sub, eventID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, status)
}
