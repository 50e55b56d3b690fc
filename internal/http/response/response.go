package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/pkg/logger"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeRateLimit           = "RATE_LIMIT_EXCEEDED"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeRegistrationClosed  = "REGISTRATION_CLOSED"
	CodeAlreadyRegistered   = "ALREADY_REGISTERED"
	CodeInvalidSignature    = "INVALID_SIGNATURE"
	CodeInvalidCredential   = "INVALID_CREDENTIAL"
	CodeAlreadyRedeemed     = "ALREADY_REDEEMED"
	CodePaymentNotConfirmed = "PAYMENT_NOT_CONFIRMED"
)

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// DomainError maps a service error onto the HTTP taxonomy. State-machine and
// signature violations surface with a generic message; the full chain stays
// in the server-side log at the call site.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "not found")
	case errors.Is(err, domain.ErrRegistrationClosed):
		WriteError(w, http.StatusBadRequest, "registrations are closed for this event", CodeRegistrationClosed)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		WriteError(w, http.StatusBadRequest, "you have already registered and paid for this event", CodeAlreadyRegistered)
	case errors.Is(err, domain.ErrInvalidSignature):
		WriteError(w, http.StatusBadRequest, "invalid payment signature", CodeInvalidSignature)
	case errors.Is(err, domain.ErrPaymentConflict):
		Conflict(w, "payment is not in a payable state")
	case errors.Is(err, domain.ErrInvalidCredential):
		WriteError(w, http.StatusBadRequest, "invalid or expired QR", CodeInvalidCredential)
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		WriteError(w, http.StatusBadRequest, "ticket already used", CodeAlreadyRedeemed)
	case errors.Is(err, domain.ErrPaymentNotConfirmed):
		WriteError(w, http.StatusBadRequest, "payment not completed", CodePaymentNotConfirmed)
	case errors.Is(err, domain.ErrInvalidCredentials):
		Unauthorized(w, "invalid roll number or password")
	case errors.Is(err, domain.ErrEmailNotVerified):
		Forbidden(w, "email not verified")
	case errors.Is(err, domain.ErrEmailExists):
		Conflict(w, "an account with this email or roll number already exists")
	case errors.Is(err, domain.ErrInvalidCode):
		BadRequest(w, "invalid or expired verification code")
	case errors.Is(err, domain.ErrNotApproved):
		Forbidden(w, "organizer account not approved")
	case errors.Is(err, domain.ErrForbidden):
		Forbidden(w, "forbidden")
	default:
		InternalError(w, "internal error")
	}
}
