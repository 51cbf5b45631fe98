package domain

import (
	"testing"
	"time"
)

func TestVerificationToken_ValidAt(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	expires := created.Add(15 * time.Minute)
	consumed := created.Add(5 * time.Minute)

	tests := []struct {
		name       string
		consumedAt *time.Time
		at         time.Time
		want       bool
	}{
		{"fresh", nil, created.Add(time.Minute), true},
		{"just before expiry", nil, expires.Add(-time.Second), true},
		{"at expiry", nil, expires, false},
		{"after expiry", nil, expires.Add(time.Hour), false},
		{"consumed", &consumed, created.Add(time.Minute), false},
		{"consumed and expired", &consumed, expires.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := VerificationToken{
				TokenHash:  "abc",
				Kind:       TokenKindEmailVerification,
				CreatedAt:  created,
				ExpiresAt:  expires,
				ConsumedAt: tt.consumedAt,
			}
			if got := tok.ValidAt(tt.at); got != tt.want {
				t.Errorf("ValidAt(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

// Validity only ever flips valid -> invalid: consuming a token or the
// clock advancing can never revive it.
func TestVerificationToken_ValidityMonotonic(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tok := VerificationToken{
		CreatedAt: created,
		ExpiresAt: created.Add(15 * time.Minute),
	}

	wasValid := true
	for _, at := range []time.Time{
		created,
		created.Add(10 * time.Minute),
		created.Add(15 * time.Minute),
		created.Add(time.Hour),
	} {
		valid := tok.ValidAt(at)
		if valid && !wasValid {
			t.Fatalf("token became valid again at %v", at)
		}
		wasValid = valid
	}

	now := created.Add(time.Minute)
	consumedAt := now
	tok.ConsumedAt = &consumedAt
	if tok.ValidAt(now) {
		t.Error("consumed token still valid")
	}
	tok.ConsumedAt = nil
	// Clearing consumption is not a supported transition; validity must
	// be derived purely from fields, so this does flip back. The store
	// never does this (tokens are only marked consumed, never unmarked).
	if !tok.ValidAt(now) {
		t.Error("validity predicate no longer pure over fields")
	}
}
