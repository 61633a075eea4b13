package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sheet-analytics/internal/auth"
	"github.com/spec-kit/sheet-analytics/internal/config"
	"github.com/spec-kit/sheet-analytics/internal/domain"
	"github.com/spec-kit/sheet-analytics/internal/events"
	"github.com/spec-kit/sheet-analytics/internal/repository"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

const minPasswordLength = 6

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	adminCode  string
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		adminCode:  cfg.Auth.AdminSignupCode,
	}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	AdminCode string
}

// Register creates a new account and issues a session token. No token is
// issued on any failure path.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, time.Time, error) {
	role, err := s.validateRegistration(in)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	email := domain.NormalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewDuplicateIdentity(email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", time.Time{}, apperrors.NewDuplicateIdentity(email)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserRegisteredPayload{Email: user.Email, Role: user.Role},
	})

	return user, token, exp, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller; internals log them apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("login: unknown email", zap.String("email", domain.NormalizeEmail(email)))
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Debug("login: password mismatch", zap.String("user_id", user.ID))
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for guard construction.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) validateRegistration(in RegisterInput) (domain.Role, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", apperrors.NewValidationError("name is required", nil)
	}
	if _, err := mail.ParseAddress(domain.NormalizeEmail(in.Email)); err != nil {
		return "", apperrors.NewValidationError("invalid email address", nil)
	}
	if len(in.Password) < minPasswordLength {
		return "", apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	role := domain.RoleUser
	if in.Role != "" {
		parsed, ok := domain.ParseRole(in.Role)
		if !ok {
			return "", apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
		}
		role = parsed
	}
	if role == domain.RoleAdmin {
		if s.adminCode == "" || subtle.ConstantTimeCompare([]byte(in.AdminCode), []byte(s.adminCode)) != 1 {
			return "", apperrors.NewValidationError("invalid admin code", nil)
		}
	}
	return role, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
