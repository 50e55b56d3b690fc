package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/platform/gateway"
	"github.com/campustix/campustix/internal/repository"
	"github.com/campustix/campustix/pkg/auth"
	"github.com/campustix/campustix/pkg/events"
	"github.com/campustix/campustix/pkg/logger"
)

type PaymentService interface {
	// CreateOrder opens a gateway order for (user, event) and records the
	// payment attempt in status created. Rejected after the registration
	// deadline or when a paid registration already exists for the pair.
	CreateOrder(ctx context.Context, userID, eventID int64) (*domain.OrderResponse, error)
	// VerifyPayment is the confirmation callback: signature check, ledger
	// transition, registration upsert, ticket mint, delivery handoff.
	// Safe to call any number of times with the same payload.
	VerifyPayment(ctx context.Context, req *domain.VerifyPaymentRequest) error
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	regRepo     repository.RegistrationRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
	gateway     gateway.Client
	signer      *auth.Signer
	eventBus    events.Publisher
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	regRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	gw gateway.Client,
	signer *auth.Signer,
	eventBus events.Publisher,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		regRepo:     regRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		gateway:     gw,
		signer:      signer,
		eventBus:    eventBus,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, userID, eventID int64) (*domain.OrderResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, domain.ErrNotFound)
	}

	if !event.RegistrationOpen(time.Now()) {
		return nil, domain.ErrRegistrationClosed
	}

	alreadyPaid, err := s.regRepo.HasPaid(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if alreadyPaid {
		return nil, domain.ErrAlreadyRegistered
	}

	receipt := fmt.Sprintf("r_%d", time.Now().Unix())
	order, err := s.gateway.CreateOrder(ctx, event.Price*100, receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	payment, err := s.paymentRepo.Create(ctx, userID, eventID, event.OrganizerID, event.Price, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logger.InfoContext(ctx, "Payment order created",
		"payment_id", payment.ID,
		"event_id", eventID,
		"order_id", order.ID,
		"amount", event.Price,
	)

	return &domain.OrderResponse{
		Success:    true,
		OrderID:    order.ID,
		Amount:     event.Price,
		GatewayKey: s.gateway.KeyID(),
		PaymentID:  payment.ID,
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, req *domain.VerifyPaymentRequest) error {
	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return fmt.Errorf("payment %d: %w", req.PaymentID, domain.ErrNotFound)
	}

	// Gateways redeliver callbacks and browsers retry; a paid payment is a
	// terminal state, so report success without touching anything.
	if payment.Status == domain.PaymentPaid {
		logger.InfoContext(ctx, "Duplicate payment confirmation ignored", "payment_id", payment.ID)
		return nil
	}

	if !s.gateway.VerifySignature(req.OrderID, req.GatewayPaymentID, req.Signature) {
		return fmt.Errorf("payment %d: %w", payment.ID, domain.ErrInvalidSignature)
	}

	transitioned, err := s.paymentRepo.MarkPaid(ctx, payment.ID, req.GatewayPaymentID)
	if err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}
	if !transitioned {
		// Lost a race against a concurrent confirmation. Re-read to tell a
		// duplicate (fine) apart from a failed payment (conflict).
		current, err := s.paymentRepo.GetByID(ctx, payment.ID)
		if err != nil {
			return fmt.Errorf("failed to re-read payment: %w", err)
		}
		if current != nil && current.Status == domain.PaymentPaid {
			logger.InfoContext(ctx, "Concurrent payment confirmation resolved as duplicate", "payment_id", payment.ID)
			return nil
		}
		return fmt.Errorf("payment %d: %w", payment.ID, domain.ErrPaymentConflict)
	}

	// Everything from here on is recoverable: the payment is committed paid,
	// and the registration upsert plus ticket mint can be repeated safely.
	registration, err := s.regRepo.UpsertPaid(ctx, payment.UserID, payment.EventID, payment.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert registration: %w", err)
	}

	token, err := s.signer.NewTicketToken(registration.ID)
	if err != nil {
		return fmt.Errorf("failed to mint entry credential: %w", err)
	}

	if err := s.regRepo.SetTicketToken(ctx, registration.ID, token); err != nil {
		return fmt.Errorf("failed to store entry credential: %w", err)
	}

	logger.InfoContext(ctx, "Payment confirmed",
		"payment_id", payment.ID,
		"registration_id", registration.ID,
		"event_id", payment.EventID,
	)

	s.publishTicketIssued(ctx, payment, registration.ID, token)

	return nil
}

// publishTicketIssued hands the credential off for out-of-band delivery.
// Failures here are logged only: the payment and registration are already
// committed and must not be invalidated by a lost notification.
func (s *paymentService) publishTicketIssued(ctx context.Context, payment *domain.Payment, registrationID int64, token string) {
	user, err := s.userRepo.FindByID(ctx, payment.UserID)
	if err != nil || user == nil {
		logger.ErrorContext(ctx, "Failed to load user for ticket delivery", "error", err, "user_id", payment.UserID)
		return
	}
	event, err := s.eventRepo.GetByID(ctx, payment.EventID)
	if err != nil || event == nil {
		logger.ErrorContext(ctx, "Failed to load event for ticket delivery", "error", err, "event_id", payment.EventID)
		return
	}

	msg := events.TicketIssuedEvent{
		RegistrationID: registrationID,
		UserEmail:      user.Email,
		UserName:       user.Name,
		EventTitle:     event.Title,
		QRToken:        token,
		IssuedAt:       time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.TicketIssued, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish ticket issued event", "error", err, "registration_id", registrationID)
	}
}
