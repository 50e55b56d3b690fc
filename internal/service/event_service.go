package service

import (
	"context"
	"fmt"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/repository"
)

type EventService interface {
	CreateEvent(ctx context.Context, organizerID int64, req *domain.EventRequest) (*domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListActiveEvents(ctx context.Context, limit, offset int) ([]domain.Event, error)
	ListOrganizerEvents(ctx context.Context, organizerID int64) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, organizerID, id int64, patch domain.EventPatch) (*domain.Event, error)
	ArchiveEvent(ctx context.Context, organizerID, id int64) error
	Dashboard(ctx context.Context, organizerID int64) ([]domain.EventSummary, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
}

func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository) EventService {
	return &eventService{eventRepo: eventRepo, userRepo: userRepo}
}

func (s *eventService) CreateEvent(ctx context.Context, organizerID int64, req *domain.EventRequest) (*domain.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	organizer, err := s.userRepo.FindByID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organizer: %w", err)
	}
	if organizer == nil || !organizer.CanManageEvents() {
		return nil, domain.ErrNotApproved
	}

	return s.eventRepo.Create(ctx, organizerID, req)
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
	}
	return event, nil
}

func (s *eventService) ListActiveEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	return s.eventRepo.ListActive(ctx, limit, offset)
}

func (s *eventService) ListOrganizerEvents(ctx context.Context, organizerID int64) ([]domain.Event, error) {
	return s.eventRepo.ListByOrganizer(ctx, organizerID)
}

func (s *eventService) UpdateEvent(ctx context.Context, organizerID, id int64, patch domain.EventPatch) (*domain.Event, error) {
	if err := s.requireOwner(ctx, organizerID, id); err != nil {
		return nil, err
	}
	return s.eventRepo.Update(ctx, id, patch)
}

func (s *eventService) ArchiveEvent(ctx context.Context, organizerID, id int64) error {
	if err := s.requireOwner(ctx, organizerID, id); err != nil {
		return err
	}
	archived, err := s.eventRepo.Archive(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to archive event: %w", err)
	}
	if !archived {
		return fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *eventService) Dashboard(ctx context.Context, organizerID int64) ([]domain.EventSummary, error) {
	return s.eventRepo.DashboardSummary(ctx, organizerID)
}

func (s *eventService) requireOwner(ctx context.Context, organizerID, eventID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("event %d: %w", eventID, domain.ErrNotFound)
	}
	if event.OrganizerID != organizerID {
		return fmt.Errorf("event %d is not owned by organizer %d: %w", eventID, organizerID, domain.ErrForbidden)
	}
	return nil
}
