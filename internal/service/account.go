// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/cache"
	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// Service errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrEntryNotFound      = errors.New("entry not found")
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, email, passwordHash string, now time.Time) (*model.User, error)
}

// ResetCodeStore keeps pending password reset challenges.
type ResetCodeStore interface {
	SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error
	ConsumeResetCode(ctx context.Context, email, code string) (bool, error)
}

// ChallengeSender delivers a reset code to the account holder.
type ChallengeSender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogChallengeSender records reset challenges in the log. The code itself
// is only logged when RevealCode is set, which is meant for development.
type LogChallengeSender struct {
	Logger     *slog.Logger
	RevealCode bool
}

// SendResetCode implements ChallengeSender.
func (s *LogChallengeSender) SendResetCode(_ context.Context, email, code string) error {
	attrs := []any{slog.String("email_hash", auth.QuickHash(email))}
	if s.RevealCode {
		attrs = append(attrs, slog.String("code", code))
	}
	s.Logger.Info("password reset challenge issued", attrs...)
	return nil
}

// ResetPolicy controls whether a password reset needs a prior challenge.
type ResetPolicy struct {
	RequireChallenge bool
	ChallengeTTL     time.Duration
	Codes            ResetCodeStore
	Sender           ChallengeSender
}

// AccountService handles registration, login, password reset and profile.
type AccountService struct {
	users    UserStore
	hasher   *auth.Hasher
	tokens   *auth.TokenIssuer
	reset    ResetPolicy
	validate *validator.Validate
	metrics  metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	users UserStore,
	hasher *auth.Hasher,
	tokens *auth.TokenIssuer,
	reset ResetPolicy,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		reset:    reset,
		validate: newValidator(),
		metrics:  recorder,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RequiresResetChallenge reports whether resets need a prior challenge.
func (s *AccountService) RequiresResetChallenge() bool {
	return s.reset.RequireChallenge
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password"`
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, missingFields("All fields are required.")
	}
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword("password", input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncRegistration()
	return user, nil
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.Identity
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password both return ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, missingFields("Email and password are required.")
	}

	user, err := s.users.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyDummy(input.Password)
			s.metrics.IncLogin(metrics.OutcomeFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if len(input.Password) > auth.MaxPasswordBytes {
		s.hasher.VerifyDummy(input.Password[:auth.MaxPasswordBytes])
		s.metrics.IncLogin(metrics.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	identity := user.Identity()
	token, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: identity}, nil
}

// RequestReset issues a reset code for email when the account exists.
// Unknown emails succeed silently so callers cannot probe for accounts.
func (s *AccountService) RequestReset(ctx context.Context, email string) error {
	if email == "" {
		return missingFields("Email is required.")
	}
	if !s.reset.RequireChallenge {
		return nil
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	code, err := auth.GenerateResetCode()
	if err != nil {
		return err
	}
	if err := s.reset.Codes.SetResetCode(ctx, email, code, s.reset.ChallengeTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	if err := s.reset.Sender.SendResetCode(ctx, email, code); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}

// ResetInput defines input for replacing a password.
type ResetInput struct {
	Email       string
	NewPassword string
	Code        string
}

// ResetPassword replaces the stored password hash for email. When the
// reset policy requires a challenge, Code must match the pending one.
func (s *AccountService) ResetPassword(ctx context.Context, input ResetInput) error {
	if input.Email == "" || input.NewPassword == "" {
		return missingFields("Email and new password are required.")
	}

	if len(input.NewPassword) > auth.MaxPasswordBytes {
		return passwordTooLong("newPassword")
	}

	if s.reset.RequireChallenge {
		if err := s.consumeResetCode(ctx, input.Email, input.Code); err != nil {
			s.metrics.IncPasswordReset(metrics.OutcomeFailure)
			return err
		}
	}

	hash, err := s.hashPassword("newPassword", input.NewPassword)
	if err != nil {
		return err
	}

	if _, err := s.users.UpdateUserPassword(ctx, input.Email, hash, s.now()); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncPasswordReset(metrics.OutcomeFailure)
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.metrics.IncPasswordReset(metrics.OutcomeSuccess)
	return nil
}

func (s *AccountService) hashPassword(field, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", passwordTooLong(field)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func passwordTooLong(field string) error {
	return &ValidationError{
		Message: "Validation failed.",
		Fields: []FieldError{{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d bytes", field, auth.MaxPasswordBytes),
		}},
	}
}

func (s *AccountService) consumeResetCode(ctx context.Context, email, code string) error {
	if !auth.ValidateResetCodeFormat(code) {
		return ErrInvalidResetCode
	}

	ok, err := s.reset.Codes.ConsumeResetCode(ctx, email, code)
	if err != nil {
		if errors.Is(err, cache.ErrNoResetChallenge) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("failed to check reset code: %w", err)
	}
	if !ok {
		return ErrInvalidResetCode
	}
	return nil
}

// Profile returns the account for email.
func (s *AccountService) Profile(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
