package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/repository"
)

const refreshTokenLen = 32

// SessionConfig holds token signing material and lifetimes.
type SessionConfig struct {
	JWTSecret       string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AccessTokenClaims are the JWT claims embedded in access tokens.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
}

// SessionService issues and validates access tokens and manages the
// refresh-token session table. Access tokens are stateless JWTs; refresh
// tokens are opaque values stored hashed, so revocation is a deny-list
// check on refresh.
type SessionService struct {
	config   SessionConfig
	sessions *repository.SessionsRepository
	now      func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(config SessionConfig, sessions *repository.SessionsRepository) *SessionService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &SessionService{
		config:   config,
		sessions: sessions,
		now:      time.Now,
	}
}

// IssueSession creates a new session for the user and returns an
// access/refresh token pair.
func (s *SessionService) IssueSession(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	refreshToken, err := GenerateToken(refreshTokenLen)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.RefreshTokenTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.signAccessToken(user, now)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.config.AccessTokenTTL.Seconds()),
	}, nil
}

// RefreshSession rotates a refresh token: the presented session is
// revoked and a fresh pair is issued, so each refresh token redeems at
// most once. Expired and already-revoked tokens are rejected.
func (s *SessionService) RefreshSession(ctx context.Context, user *domain.User, refreshToken string) (*domain.TokenPair, error) {
	session, err := s.sessions.GetByTokenHash(ctx, HashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session.UserID != user.ID {
		return nil, domain.ErrSessionNotFound
	}

	now := s.now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if !now.Before(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessions.RevokeByTokenHash(ctx, session.TokenHash); err != nil {
		return nil, err
	}

	return s.IssueSession(ctx, user)
}

// SessionUserID resolves a refresh token to the owning user without
// rotating it, for refresh endpoints that carry no access token.
func (s *SessionService) SessionUserID(ctx context.Context, refreshToken string) (uuid.UUID, error) {
	session, err := s.sessions.GetByTokenHash(ctx, HashToken(refreshToken))
	if err != nil {
		return uuid.Nil, err
	}
	if session.RevokedAt != nil {
		return uuid.Nil, domain.ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return uuid.Nil, domain.ErrSessionExpired
	}
	return session.UserID, nil
}

// RevokeSession revokes the session holding the given refresh token.
func (s *SessionService) RevokeSession(ctx context.Context, refreshToken string) error {
	return s.sessions.RevokeByTokenHash(ctx, HashToken(refreshToken))
}

// RevokeAllSessions revokes every live session for the user.
func (s *SessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllByUserID(ctx, userID)
}

// ValidateAccessToken parses and verifies an access token, returning its
// claims. Any parse, signature, or expiry failure yields
// domain.ErrInvalidToken.
func (s *SessionService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token invalid")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *SessionService) signAccessToken(user *domain.User, now time.Time) (string, error) {
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
			ID:        uuid.NewString(),
		},
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Name:          user.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
