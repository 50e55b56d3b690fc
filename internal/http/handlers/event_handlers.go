package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/http/middleware"
	"github.com/campustix/campustix/internal/http/response"
	"github.com/campustix/campustix/internal/service"
	"github.com/campustix/campustix/pkg/auth"
)

type EventHandler struct {
	events        service.EventService
	registrations service.RegistrationService
	signer        *auth.Signer
}

func NewEventHandler(events service.EventService, registrations service.RegistrationService, signer *auth.Signer) *EventHandler {
	return &EventHandler{events: events, registrations: registrations, signer: signer}
}

func (h *EventHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Browsing is public; everything mutating is organizer-only.
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.signer, domain.RoleOrganizer))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.archive)
	})

	return r
}

// OrganizerRoutes serves the organizer's own view: their events, per-event
// attendee lists, and the dashboard.
func (h *EventHandler) OrganizerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(h.signer, domain.RoleOrganizer))
	r.Get("/events", h.listOwn)
	r.Get("/events/{id}/registrations", h.listRegistrations)
	r.Get("/dashboard", h.dashboard)
	return r
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	events, err := h.events.ListActiveEvents(r.Context(), limit, offset)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *EventHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}
	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, event)
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var req domain.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	event, err := h.events.CreateEvent(r.Context(), claims.Sub, &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	var patch domain.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	event, err := h.events.UpdateEvent(r.Context(), claims.Sub, id, patch)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, event)
}

func (h *EventHandler) archive(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	if err := h.events.ArchiveEvent(r.Context(), claims.Sub, id); err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "event archived"})
}

func (h *EventHandler) listOwn(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	events, err := h.events.ListOrganizerEvents(r.Context(), claims.Sub)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *EventHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	summary, err := h.events.Dashboard(r.Context(), claims.Sub)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": summary})
}

func (h *EventHandler) listRegistrations(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	regs, err := h.registrations.ListForEvent(r.Context(), claims.Sub, id)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"registrations": regs})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
