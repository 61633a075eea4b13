package dto

import (
	"time"

	"github.com/spec-kit/sheet-analytics/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	AdminCode string `json:"adminCode,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PublicUser is the redacted account view; the password hash never leaves
// the service.
type PublicUser struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      domain.Role       `json:"role"`
	Status    domain.UserStatus `json:"status,omitempty"`
	CreatedAt time.Time         `json:"createdAt,omitempty"`
}

// NewPublicUser redacts a domain user.
func NewPublicUser(user *domain.User) PublicUser {
	return PublicUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string     `json:"token"`
	User      PublicUser `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// ModerateUserRequest carries admin account updates.
type ModerateUserRequest struct {
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
}
