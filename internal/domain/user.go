package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account identified by a unique, case-normalized email.
// A user without a credential row is a social-auth-only account and can
// never authenticate with a password.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	PhotoURL      *string    `json:"photo_url,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// UserCredential holds the password hash for a password account.
// Absence of a row marks a social-auth-only account.
type UserCredential struct {
	UserID            uuid.UUID
	PasswordHash      string
	PasswordUpdatedAt time.Time
}
