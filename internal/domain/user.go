package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role restricts what a user may access. Every new registration gets
// RoleUser; RoleAdmin exists for future administrative surfaces.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account. PasswordHash is a bcrypt hash and
// must never be serialized to clients.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address so that lookups
// and the uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate ensures the user adheres to domain rules.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	if u.Role != RoleUser && u.Role != RoleAdmin {
		return fmt.Errorf("%w: role must be user or admin", ErrValidation)
	}

	return nil
}
