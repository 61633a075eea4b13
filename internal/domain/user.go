package domain

import (
	"strings"
	"time"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// UserStatus represents account lifecycle states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// ParseUserStatus validates a raw status string.
func ParseUserStatus(raw string) (UserStatus, bool) {
	switch UserStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case UserStatusActive:
		return UserStatusActive, true
	case UserStatusInactive:
		return UserStatusInactive, true
	}
	return "", false
}

// User is the domain model for accounts. Emails are stored lower-cased and
// trimmed; uniqueness is therefore case-insensitive.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail applies the canonical email form used everywhere an email
// crosses a boundary: lookup, uniqueness check and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
