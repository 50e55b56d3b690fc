package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestSigner(sessionTTL, ticketTTL time.Duration) *Signer {
	return NewSigner("session-test-secret", "ticket-test-secret", sessionTTL, ticketTTL)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	s := newTestSigner(time.Hour, time.Hour)

	token, err := s.NewSessionToken(42, "student")
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	claims, err := s.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession: %v", err)
	}
	if claims.Sub != 42 {
		t.Errorf("Sub: got %d, want 42", claims.Sub)
	}
	if claims.Role != "student" {
		t.Errorf("Role: got %q, want %q", claims.Role, "student")
	}
}

func TestTicketTokenRoundTrip(t *testing.T) {
	s := newTestSigner(time.Hour, time.Hour)

	token, err := s.NewTicketToken(101)
	if err != nil {
		t.Fatalf("NewTicketToken: %v", err)
	}

	claims, err := s.ParseTicket(token)
	if err != nil {
		t.Fatalf("ParseTicket: %v", err)
	}
	if claims.RegistrationID != 101 {
		t.Errorf("RegistrationID: got %d, want 101", claims.RegistrationID)
	}
}

func TestCrossNamespaceRejected(t *testing.T) {
	s := newTestSigner(time.Hour, time.Hour)

	session, err := s.NewSessionToken(1, "organizer")
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, err := s.ParseTicket(session); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("session token accepted as ticket: err=%v", err)
	}

	ticket, err := s.NewTicketToken(7)
	if err != nil {
		t.Fatalf("NewTicketToken: %v", err)
	}
	if _, err := s.ParseSession(ticket); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ticket token accepted as session: err=%v", err)
	}
}

func TestExpiredTicketRejected(t *testing.T) {
	s := newTestSigner(time.Hour, -time.Minute)

	token, err := s.NewTicketToken(5)
	if err != nil {
		t.Fatalf("NewTicketToken: %v", err)
	}

	_, err = s.ParseTicket(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	s := newTestSigner(time.Hour, time.Hour)

	token, err := s.NewTicketToken(5)
	if err != nil {
		t.Fatalf("NewTicketToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	if _, err := s.ParseTicket(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for tampered payload, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	s := newTestSigner(time.Hour, time.Hour)
	other := NewSigner("another-session-secret", "another-ticket-secret", time.Hour, time.Hour)

	token, err := s.NewTicketToken(9)
	if err != nil {
		t.Fatalf("NewTicketToken: %v", err)
	}

	if _, err := other.ParseTicket(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid under a different key, got %v", err)
	}
}
