package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/http/response"
	"github.com/campustix/campustix/internal/service"
	"github.com/campustix/campustix/pkg/logger"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/verify-email", h.verifyEmail)
	r.Post("/resend-verification", h.resendVerification)
	return r
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.svc.Signup(r.Context(), &req)
	if err != nil {
		logger.ErrorContext(r.Context(), "signup failed", "error", err, "email", req.Email)
		response.DomainError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "account created, check your email for the verification code",
		"user":    user.ToUserInfo(),
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()
	if req.RollNo == "" || req.Password == "" {
		response.BadRequest(w, "roll number and password are required")
		return
	}

	resp, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.Code)
	if email == "" || code == "" {
		response.BadRequest(w, "email and code are required")
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), email, code); err != nil {
		response.DomainError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

func (h *AuthHandler) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		response.BadRequest(w, "email is required")
		return
	}

	// Always answers 200 so the endpoint cannot be used to probe accounts.
	if err := h.svc.ResendVerification(r.Context(), email); err != nil {
		logger.ErrorContext(r.Context(), "resend verification failed", "error", err)
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a new code has been sent",
	})
}
