package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
)

func newTestSessionService(now time.Time) *SessionService {
	return &SessionService{
		config: SessionConfig{
			JWTSecret:       "test-secret",
			Issuer:          "quixa-api-test",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		now: func() time.Time { return now },
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:            uuid.New(),
		Email:         "alice@example.com",
		Name:          "Alice",
		EmailVerified: true,
	}
}

func TestAccessToken_Roundtrip(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSessionService(now)
	user := testUser()

	tokenString, err := s.signAccessToken(user, now)
	if err != nil {
		t.Fatalf("signAccessToken() error = %v", err)
	}

	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}

	if claims.Subject != user.ID.String() {
		t.Errorf("subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("email = %q, want %q", claims.Email, user.Email)
	}
	if !claims.EmailVerified {
		t.Error("email_verified claim = false, want true")
	}
	if claims.Issuer != "quixa-api-test" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	issued := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSessionService(issued)

	tokenString, err := s.signAccessToken(testUser(), issued)
	if err != nil {
		t.Fatalf("signAccessToken() error = %v", err)
	}

	// Advance past the access TTL.
	s.now = func() time.Time { return issued.Add(16 * time.Minute) }

	if _, err := s.ValidateAccessToken(tokenString); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSessionService(now)

	tokenString, err := s.signAccessToken(testUser(), now)
	if err != nil {
		t.Fatalf("signAccessToken() error = %v", err)
	}

	other := newTestSessionService(now)
	other.config.JWTSecret = "different-secret"

	if _, err := other.ValidateAccessToken(tokenString); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	s := newTestSessionService(time.Now())
	for _, tok := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := s.ValidateAccessToken(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("ValidateAccessToken(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}
