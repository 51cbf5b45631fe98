package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/repository"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleUserInfo is the subset of the Google userinfo response we use.
type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleService exchanges Google OAuth access tokens for local users,
// creating the account on first sign-in.
type GoogleService struct {
	db    *sql.DB
	users *repository.UsersRepository

	userInfoURL string
	httpClient  *http.Client
	now         func() time.Time
}

// NewGoogleService creates a new Google authentication service.
func NewGoogleService(db *sql.DB, users *repository.UsersRepository) *GoogleService {
	return &GoogleService{
		db:          db,
		users:       users,
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
	}
}

// fetchUserInfo validates the access token against Google's userinfo
// endpoint. Every failure mode (network, non-200, unverified or missing
// email) collapses into domain.ErrAuthenticationFailed; callers never
// learn why a token was rejected.
func (s *GoogleService) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("google userinfo request rejected", "status", resp.StatusCode)
		return nil, domain.ErrAuthenticationFailed
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}

	if info.Email == "" || !info.VerifiedEmail {
		return nil, domain.ErrAuthenticationFailed
	}

	return &info, nil
}

// Authenticate validates a Google access token and returns the local
// user for it, creating one on first sign-in. Repeated calls with the
// same Google account always resolve to the same user; a concurrent
// first sign-in race is settled by the unique email constraint.
func (s *GoogleService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	info, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return s.resolveUser(ctx, info)
}

// resolveUser maps a verified provider identity to a local user,
// creating one on first sign-in.
func (s *GoogleService) resolveUser(ctx context.Context, info *googleUserInfo) (*domain.User, error) {
	email := NormalizeEmail(info.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := s.now()
	user = &domain.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          displayName(info),
		EmailVerified: true, // Google asserted ownership of the address
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if info.Picture != "" {
		picture := info.Picture
		user.PhotoURL = &picture
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost the race to a concurrent sign-in; the winner's row
			// is the account.
			return s.users.GetByEmail(ctx, email)
		}
		return nil, err
	}

	return user, nil
}

func displayName(info *googleUserInfo) string {
	switch {
	case info.GivenName != "" && info.FamilyName != "":
		return info.GivenName + " " + info.FamilyName
	case info.GivenName != "":
		return info.GivenName
	case info.Name != "":
		return info.Name
	default:
		return EmailLocalPart(info.Email)
	}
}
