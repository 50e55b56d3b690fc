package domain

import "errors"

// Sentinel errors for the payment / registration / entry lifecycle. Services
// wrap these with context; handlers unwrap with errors.Is to pick the HTTP
// status, so the chain must preserve them.
var (
	ErrNotFound = errors.New("not found")

	// Order creation
	ErrRegistrationClosed = errors.New("registrations are closed for this event")
	ErrAlreadyRegistered  = errors.New("already registered and paid for this event")

	// Payment confirmation
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrPaymentConflict  = errors.New("payment is not in a payable state")

	// Entry scanning
	ErrInvalidCredential   = errors.New("invalid or expired ticket")
	ErrAlreadyRedeemed     = errors.New("ticket already used")
	ErrPaymentNotConfirmed = errors.New("payment not completed")

	// Auth
	ErrInvalidCredentials = errors.New("invalid roll number or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailExists        = errors.New("an account with this email or roll number already exists")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrNotApproved        = errors.New("organizer account not approved")
	ErrForbidden          = errors.New("forbidden")
)
