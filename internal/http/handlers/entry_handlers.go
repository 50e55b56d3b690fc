package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/http/middleware"
	"github.com/campustix/campustix/internal/http/response"
	"github.com/campustix/campustix/internal/service"
	"github.com/campustix/campustix/pkg/auth"
	"github.com/campustix/campustix/pkg/logger"
)

type EntryHandler struct {
	entry  service.EntryService
	signer *auth.Signer
}

func NewEntryHandler(entry service.EntryService, signer *auth.Signer) *EntryHandler {
	return &EntryHandler{entry: entry, signer: signer}
}

func (h *EntryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(h.signer, domain.RoleOrganizer))
	r.Post("/scan", h.scan)
	return r
}

func (h *EntryHandler) scan(w http.ResponseWriter, r *http.Request) {
	var req domain.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QRToken == "" {
		response.BadRequest(w, "qrToken is required")
		return
	}

	result, err := h.entry.Scan(r.Context(), req.QRToken)
	if err != nil {
		logger.InfoContext(r.Context(), "scan rejected", "error", err)
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}
