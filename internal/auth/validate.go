package auth

import (
	"net/mail"
	"strings"

	"github.com/quixapro/quixa-api/internal/domain"
)

const (
	maxEmailLength    = 254 // RFC 5321
	minPasswordLength = 8
)

// ValidateEmail validates an email address for format and length.
func ValidateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength {
		return domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(NormalizeEmail(email)); err != nil {
		return domain.ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail normalizes an email address by lowercasing and trimming.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks the minimum password requirements.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}
	return nil
}

// EmailLocalPart returns the part of an email before the @, used as a
// display-name fallback for provider profiles with no name fields.
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
