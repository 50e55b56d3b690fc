package service

import (
	"context"
	"fmt"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/repository"
)

type RegistrationService interface {
	ListMine(ctx context.Context, userID int64) ([]domain.RegistrationDetail, error)
	StatusFor(ctx context.Context, userID, eventID int64) (*domain.RegistrationStatusResponse, error)
	ListForEvent(ctx context.Context, organizerID, eventID int64) ([]domain.RegistrationDetail, error)
}

type registrationService struct {
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
}

func NewRegistrationService(regRepo repository.RegistrationRepository, eventRepo repository.EventRepository) RegistrationService {
	return &registrationService{regRepo: regRepo, eventRepo: eventRepo}
}

func (s *registrationService) ListMine(ctx context.Context, userID int64) ([]domain.RegistrationDetail, error) {
	return s.regRepo.ListByUser(ctx, userID)
}

func (s *registrationService) StatusFor(ctx context.Context, userID, eventID int64) (*domain.RegistrationStatusResponse, error) {
	status, found, err := s.regRepo.StatusFor(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration status: %w", err)
	}
	if !found || status == domain.RegistrationRegistered {
		return &domain.RegistrationStatusResponse{Registered: false}, nil
	}
	return &domain.RegistrationStatusResponse{Registered: true, Status: status}, nil
}

func (s *registrationService) ListForEvent(ctx context.Context, organizerID, eventID int64) ([]domain.RegistrationDetail, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, domain.ErrNotFound)
	}
	if event.OrganizerID != organizerID {
		return nil, fmt.Errorf("event %d is not owned by organizer %d: %w", eventID, organizerID, domain.ErrForbidden)
	}

	return s.regRepo.ListByEvent(ctx, eventID)
}
