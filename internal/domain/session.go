package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session backs a refresh token. The refresh token itself is opaque and
// stored hashed; revoking the session is the deny-list that prevents the
// token from ever being exchanged again, even before natural expiry.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	LastSeenAt *time.Time
}

// ValidAt reports whether the session can still be exchanged for access
// tokens at the given instant.
func (s *Session) ValidAt(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// TokenPair is the session credential pair issued after authentication.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
