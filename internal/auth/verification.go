package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/notification"
	"github.com/quixapro/quixa-api/internal/repository"
)

// VerificationConfig holds token lifetimes and the optional reset URL
// embedded in password-reset emails.
type VerificationConfig struct {
	EmailVerificationTTL time.Duration
	PasswordResetTTL     time.Duration
	ResetURL             string
}

// VerificationService owns the verification-token lifecycle: issuing
// purpose-specific tokens (invalidating prior ones), delivering them via
// email, and redeeming them exactly once.
type VerificationService struct {
	config VerificationConfig
	db     *sql.DB
	tokens *repository.VerificationTokensRepository
	users  *repository.UsersRepository
	creds  *repository.CredentialsRepository
	emails notification.Sender
	now    func() time.Time
}

// NewVerificationService creates a new verification service.
func NewVerificationService(
	config VerificationConfig,
	db *sql.DB,
	tokens *repository.VerificationTokensRepository,
	users *repository.UsersRepository,
	creds *repository.CredentialsRepository,
	emails notification.Sender,
) *VerificationService {
	if config.EmailVerificationTTL == 0 {
		config.EmailVerificationTTL = 15 * time.Minute
	}
	if config.PasswordResetTTL == 0 {
		config.PasswordResetTTL = time.Hour
	}
	return &VerificationService{
		config: config,
		db:     db,
		tokens: tokens,
		users:  users,
		creds:  creds,
		emails: emails,
		now:    time.Now,
	}
}

// issueTokenTx invalidates all unconsumed tokens of the kind for the
// user and persists a freshly generated replacement, returning the raw
// value. Runs on the caller's transaction so invalidation and issuance
// commit as one unit.
func (s *VerificationService) issueTokenTx(ctx context.Context, q repository.Querier, userID uuid.UUID, kind domain.VerificationTokenKind) (string, error) {
	var raw string
	var ttl time.Duration
	var err error

	switch kind {
	case domain.TokenKindEmailVerification:
		raw, err = GenerateNumericCode()
		ttl = s.config.EmailVerificationTTL
	case domain.TokenKindPasswordReset:
		raw, err = GenerateToken(ResetTokenLen)
		ttl = s.config.PasswordResetTTL
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.tokens.InvalidateActiveTx(ctx, q, userID, kind); err != nil {
		return "", fmt.Errorf("failed to invalidate active tokens: %w", err)
	}

	now := s.now()
	token := &domain.VerificationToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: HashToken(raw),
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.tokens.CreateTx(ctx, q, token); err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return raw, nil
}

// sendEmailVerificationTx issues a fresh code for the user and dispatches
// the verification email on the caller's transaction, so a delivery
// failure rolls back everything minted in the same logical operation
// (including the user row during registration).
func (s *VerificationService) sendEmailVerificationTx(ctx context.Context, q repository.Querier, user *domain.User) (string, error) {
	code, err := s.issueTokenTx(ctx, q, user.ID, domain.TokenKindEmailVerification)
	if err != nil {
		return "", err
	}
	if err := s.emails.SendVerificationEmail(user.Email, user.Name, code); err != nil {
		return "", err
	}
	return code, nil
}

// SendEmailVerification issues a fresh verification code for the user
// and emails it. Returns domain.ErrEmailAlreadyVerified for verified
// accounts. The returned code is for callers' side effects and tests.
func (s *VerificationService) SendEmailVerification(ctx context.Context, user *domain.User) (string, error) {
	if user.EmailVerified {
		return "", domain.ErrEmailAlreadyVerified
	}

	var code string
	err := repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		code, err = s.sendEmailVerificationTx(ctx, tx, user)
		return err
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// VerifyEmail redeems a verification code presented with an email claim.
// Unknown email, mismatched code, and expired code are deliberately
// indistinguishable to the caller. On success the email_verified flag
// and the token's consumption commit atomically.
func (s *VerificationService) VerifyEmail(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidVerificationCode
		}
		return nil, err
	}

	if user.EmailVerified {
		return nil, domain.ErrEmailAlreadyVerified
	}

	token, err := s.tokens.GetByUserAndHash(ctx, user.ID, HashToken(code), domain.TokenKindEmailVerification)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationTokenNotFound) {
			return nil, domain.ErrInvalidVerificationCode
		}
		return nil, err
	}

	if !token.ValidAt(s.now()) {
		return nil, domain.ErrInvalidVerificationCode
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tokens.MarkConsumedTx(ctx, tx, token.ID); err != nil {
			return fmt.Errorf("failed to consume token: %w", err)
		}
		return s.users.MarkEmailVerifiedTx(ctx, tx, user.ID)
	})
	if err != nil {
		// A concurrent redemption consumed the token first.
		if errors.Is(err, domain.ErrVerificationTokenNotFound) {
			return nil, domain.ErrInvalidVerificationCode
		}
		return nil, err
	}

	user.EmailVerified = true
	return user, nil
}

// RequestPasswordReset issues a reset token for a password account and
// emails it. Unlike redemption, the request path gives explicit
// feedback: unknown email and social-only accounts are distinct errors.
func (s *VerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	hasPassword, err := s.creds.ExistsByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if !hasPassword {
		return domain.ErrSocialAuthOnly
	}

	return repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		token, err := s.issueTokenTx(ctx, tx, user.ID, domain.TokenKindPasswordReset)
		if err != nil {
			return err
		}
		return s.emails.SendPasswordResetEmail(user.Email, user.Name, token, s.config.ResetURL)
	})
}

// ResetPassword redeems a reset token and stores the new password hash,
// both as one atomic unit. All lookup failures collapse into
// domain.ErrInvalidResetToken.
func (s *VerificationService) ResetPassword(ctx context.Context, email, rawToken, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}

	token, err := s.tokens.GetByUserAndHash(ctx, user.ID, HashToken(rawToken), domain.TokenKindPasswordReset)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationTokenNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}

	if !token.ValidAt(s.now()) {
		return domain.ErrInvalidResetToken
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tokens.MarkConsumedTx(ctx, tx, token.ID); err != nil {
			return fmt.Errorf("failed to consume token: %w", err)
		}
		return s.creds.UpdateTx(ctx, tx, user.ID, hash)
	})
	if err != nil {
		if errors.Is(err, domain.ErrVerificationTokenNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}
	return nil
}
