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

type PaymentHandler struct {
	payments service.PaymentService
	signer   *auth.Signer
}

func NewPaymentHandler(payments service.PaymentService, signer *auth.Signer) *PaymentHandler {
	return &PaymentHandler{payments: payments, signer: signer}
}

func (h *PaymentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(h.signer, domain.RoleStudent))
	r.Post("/create-order/{eventId}", h.createOrder)
	r.Post("/verify", h.verify)
	return r
}

func (h *PaymentHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.BadRequest(w, "invalid event id")
		return
	}

	order, err := h.payments.CreateOrder(r.Context(), claims.Sub, eventID)
	if err != nil {
		logger.ErrorContext(r.Context(), "create order failed",
			"error", err, "user_id", claims.Sub, "event_id", eventID)
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, order)
}

func (h *PaymentHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !req.Complete() {
		response.BadRequest(w, "order id, payment id and signature are required")
		return
	}

	if err := h.payments.VerifyPayment(r.Context(), &req); err != nil {
		logger.ErrorContext(r.Context(), "payment verification failed",
			"error", err, "order_id", req.OrderID)
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "payment verified, your ticket is on its way",
	})
}
