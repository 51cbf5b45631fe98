package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/repository"
)

// PasswordService handles registration and password-based authentication.
type PasswordService struct {
	db           *sql.DB
	users        *repository.UsersRepository
	creds        *repository.CredentialsRepository
	verification *VerificationService
	now          func() time.Time
}

// NewPasswordService creates a new password service.
func NewPasswordService(
	db *sql.DB,
	users *repository.UsersRepository,
	creds *repository.CredentialsRepository,
	verification *VerificationService,
) *PasswordService {
	return &PasswordService{
		db:           db,
		users:        users,
		creds:        creds,
		verification: verification,
		now:          time.Now,
	}
}

// Register creates an unverified user with password credentials, issues
// an email verification code and dispatches the verification email, all
// in one transaction. A delivery failure rolls back the user so the
// client can retry registration cleanly.
func (s *PasswordService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          name,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.users.CreateTx(ctx, tx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return domain.ErrUserAlreadyExists
			}
			return err
		}
		cred := &domain.UserCredential{
			UserID:            user.ID,
			PasswordHash:      hash,
			PasswordUpdatedAt: now,
		}
		if err := s.creds.CreateTx(ctx, tx, cred); err != nil {
			return err
		}
		_, err := s.verification.sendEmailVerificationTx(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate checks an email/password pair. Social-only accounts fail
// with domain.ErrSocialAuthOnly before any hash comparison; a wrong
// password or unknown email fails with domain.ErrInvalidCredentials.
func (s *PasswordService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	cred, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword replaces the password for an authenticated user after
// re-verifying the old one.
func (s *PasswordService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	cred, err := s.creds.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if !VerifyPassword(oldPassword, cred.PasswordHash) {
		return domain.ErrOldPasswordIncorrect
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.creds.Update(ctx, userID, hash)
}

// GetUserByID retrieves a user by ID.
func (s *PasswordService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUserByEmail retrieves a user by email.
func (s *PasswordService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, NormalizeEmail(email))
}

// UpdateProfile updates the user's display name and photo URL and
// returns the refreshed record.
func (s *PasswordService) UpdateProfile(ctx context.Context, id uuid.UUID, name string, photoURL *string) (*domain.User, error) {
	if err := s.users.UpdateProfile(ctx, id, name, photoURL); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}
