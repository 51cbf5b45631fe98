package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationTokenKind discriminates token purposes. The purpose governs
// the value format, the expiry window, and the redemption semantics.
type VerificationTokenKind string

const (
	TokenKindEmailVerification VerificationTokenKind = "email_verification"
	TokenKindPasswordReset     VerificationTokenKind = "password_reset"
)

// VerificationToken is a single-use, time-bounded token. Rows are never
// deleted: consumed and superseded tokens stay as an audit trail with
// consumed_at set. At most one unexpired, unconsumed token per
// (user, kind) is authoritative; issuance marks all prior unconsumed
// tokens of the kind consumed before inserting the new row.
type VerificationToken struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	Kind       VerificationTokenKind
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// ValidAt reports whether the token is redeemable at the given instant:
// not consumed and not past expiry. Consuming a token or passing its
// expiry flips validity permanently; there is no path back to valid.
func (t *VerificationToken) ValidAt(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}
