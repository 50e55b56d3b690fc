package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/repository"
	"github.com/campustix/campustix/pkg/auth"
	"github.com/campustix/campustix/pkg/events"
	"github.com/campustix/campustix/pkg/logger"
)

type EntryService interface {
	// Scan consumes a scanned ticket token exactly once. The token only
	// names a registration; everything that matters is re-read from the
	// live row, so a stale token cannot override current state.
	Scan(ctx context.Context, qrToken string) (*domain.ScanResult, error)
}

type entryService struct {
	regRepo   repository.RegistrationRepository
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
	signer    *auth.Signer
	eventBus  events.Publisher
}

func NewEntryService(
	regRepo repository.RegistrationRepository,
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	signer *auth.Signer,
	eventBus events.Publisher,
) EntryService {
	return &entryService{
		regRepo:   regRepo,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		signer:    signer,
		eventBus:  eventBus,
	}
}

func (s *entryService) Scan(ctx context.Context, qrToken string) (*domain.ScanResult, error) {
	claims, err := s.signer.ParseTicket(qrToken)
	if err != nil {
		// Expired and forged tokens are deliberately indistinguishable to
		// the caller.
		return nil, domain.ErrInvalidCredential
	}

	registration, err := s.regRepo.GetByID(ctx, claims.RegistrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	if registration == nil {
		return nil, fmt.Errorf("registration %d: %w", claims.RegistrationID, domain.ErrNotFound)
	}

	switch registration.Status {
	case domain.RegistrationCheckedIn:
		return nil, domain.ErrAlreadyRedeemed
	case domain.RegistrationPaid:
		// fall through to redeem
	default:
		return nil, domain.ErrPaymentNotConfirmed
	}

	redeemed, err := s.regRepo.Redeem(ctx, registration.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem registration: %w", err)
	}
	if !redeemed {
		// A concurrent scan won the conditional update between our read and
		// this write.
		current, err := s.regRepo.GetByID(ctx, registration.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read registration: %w", err)
		}
		if current != nil && current.Status == domain.RegistrationCheckedIn {
			return nil, domain.ErrAlreadyRedeemed
		}
		return nil, domain.ErrPaymentNotConfirmed
	}

	user, err := s.userRepo.FindByID(ctx, registration.UserID)
	if err != nil || user == nil {
		return nil, fmt.Errorf("failed to load attendee: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, registration.EventID)
	if err != nil || event == nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	logger.InfoContext(ctx, "Ticket redeemed",
		"registration_id", registration.ID,
		"event_id", registration.EventID,
		"user_id", registration.UserID,
	)

	// Best-effort confirmation email; never fails the scan.
	msg := events.EntryConfirmedEvent{
		RegistrationID: registration.ID,
		UserEmail:      user.Email,
		UserName:       user.Name,
		EventTitle:     event.Title,
		CheckedInAt:    time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.EntryConfirmed, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish entry confirmed event", "error", err, "registration_id", registration.ID)
	}

	return &domain.ScanResult{
		Success: true,
		Student: domain.ScanStudent{
			Name:  user.Name,
			Phone: user.Phone,
		},
		Event: event.Title,
	}, nil
}
