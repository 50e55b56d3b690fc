package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/repository"
	"github.com/campustix/campustix/pkg/auth"
	"github.com/campustix/campustix/pkg/events"
	"github.com/campustix/campustix/pkg/logger"
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
}

type authService struct {
	userRepo        repository.UserRepository
	verifyRepo      repository.VerifyRepository
	signer          *auth.Signer
	eventBus        events.Publisher
	verificationTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	verifyRepo repository.VerifyRepository,
	signer *auth.Signer,
	eventBus events.Publisher,
	verificationTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		verifyRepo:      verifyRepo,
		signer:          signer,
		eventBus:        eventBus,
		verificationTTL: verificationTTL,
	}
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing == nil {
		existing, err = s.userRepo.FindByRollNo(ctx, req.RollNo)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing roll number: %w", err)
		}
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.issueVerificationCode(ctx, user.Email, user.Name); err != nil {
		logger.ErrorContext(ctx, "Failed to issue verification code", "error", err, "user_id", user.ID)
		// Signup itself succeeded; the user can request a resend.
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()

	user, err := s.userRepo.FindByRollNo(ctx, req.RollNo)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, domain.ErrEmailNotVerified
	}

	token, err := s.signer.NewSessionToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &domain.LoginResponse{
		Token: token,
		User:  user.ToUserInfo(),
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	ok, err := s.verifyRepo.ConsumeCode(ctx, email, code)
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	if !ok {
		return domain.ErrInvalidCode
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// Don't reveal whether the account exists.
		return nil
	}
	if user.IsVerified {
		return nil
	}

	return s.issueVerificationCode(ctx, user.Email, user.Name)
}

func (s *authService) issueVerificationCode(ctx context.Context, email, name string) error {
	code, err := generateVerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	expiresAt := time.Now().Add(s.verificationTTL)
	if err := s.verifyRepo.CreateCode(ctx, email, string(codeHash), expiresAt); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	msg := events.VerificationRequestedEvent{Email: email, Name: name, Code: code}
	if err := s.eventBus.Publish(ctx, events.VerificationRequested, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish verification event", "error", err, "email", email)
	}
	return nil
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
