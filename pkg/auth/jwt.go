package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Parse failures are collapsed into two cases so callers can map them to
// distinct HTTP rejections without inspecting library internals.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

const (
	sessionAudience = "campustix-api"
	ticketAudience  = "campustix-entry"
)

// Claims is the session bearer token payload.
type Claims struct {
	Sub  int64  `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TicketClaims carries only the registration ID. The scanner re-reads the
// live registration row, so nothing else the token could embed would be
// trusted anyway.
type TicketClaims struct {
	RegistrationID int64 `json:"registration_id"`
	jwt.RegisteredClaims
}

// Signer issues and verifies both token kinds. Session and ticket tokens use
// independent secrets and audiences; a token minted under one namespace never
// verifies under the other.
type Signer struct {
	sessionSecret []byte
	ticketSecret  []byte
	sessionTTL    time.Duration
	ticketTTL     time.Duration
}

func NewSigner(sessionSecret, ticketSecret string, sessionTTL, ticketTTL time.Duration) *Signer {
	return &Signer{
		sessionSecret: []byte(sessionSecret),
		ticketSecret:  []byte(ticketSecret),
		sessionTTL:    sessionTTL,
		ticketTTL:     ticketTTL,
	}
}

func (s *Signer) NewSessionToken(userID int64, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			Audience:  []string{sessionAudience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.sessionSecret)
}

func (s *Signer) ParseSession(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.sessionSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(sessionAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Signer) NewTicketToken(registrationID int64) (string, error) {
	now := time.Now()
	claims := TicketClaims{
		RegistrationID: registrationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ticketTTL)),
			Audience:  []string{ticketAudience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.ticketSecret)
}

func (s *Signer) ParseTicket(tokenString string) (*TicketClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &TicketClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.ticketSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(ticketAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(*TicketClaims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
