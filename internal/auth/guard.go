package auth

import (
	"context"
	"errors"

	"github.com/spec-kit/sheet-analytics/internal/domain"
	"github.com/spec-kit/sheet-analytics/internal/repository"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

// Principal is the resolved authenticated identity attached to a request.
// It never carries the password hash.
type Principal struct {
	ID    string
	Name  string
	Email string
	Role  domain.Role
}

// Guard composes token verification with a live role/status policy check.
//
// Rejection order is deliberate: token checks run before any store lookup,
// and status is checked before role, so an inactive admin is rejected for
// inactivity rather than authorized.
type Guard struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewGuard constructs the access guard.
func NewGuard(tokens *TokenManager, users repository.UserRepository) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authorize validates the bearer credential in authHeader and resolves the
// live user. requiredRole = RoleUser admits any authenticated active user;
// RoleAdmin admits admins only. Returns the principal or a DomainError
// carrying the HTTP status of the rejection.
func (g *Guard) Authorize(ctx context.Context, authHeader string, requiredRole domain.Role) (*Principal, error) {
	tokenStr, err := BearerToken(authHeader)
	if err != nil {
		return nil, apperrors.NewUnauthorized(err.Error())
	}

	claims, err := g.tokens.Parse(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthorized(err.Error())
	}

	// Always re-fetch the live record: role and status changes since
	// issuance take effect here, not on already-issued tokens.
	user, err := g.users.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("user not found or token invalid")
		}
		return nil, apperrors.MapError(err)
	}

	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("account is not active")
	}

	if requiredRole == domain.RoleAdmin && user.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("insufficient privileges")
	}

	return &Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}
