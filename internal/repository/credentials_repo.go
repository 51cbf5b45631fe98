package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
)

// CredentialsRepository handles password-credential persistence. A user
// without a credential row is a social-auth-only account.
type CredentialsRepository struct {
	db *sql.DB
}

// NewCredentialsRepository creates a new credentials repository.
func NewCredentialsRepository(db *sql.DB) *CredentialsRepository {
	return &CredentialsRepository{db: db}
}

// Create creates password credentials for a user.
func (r *CredentialsRepository) Create(ctx context.Context, cred *domain.UserCredential) error {
	return r.CreateTx(ctx, r.db, cred)
}

// CreateTx creates password credentials within a transaction.
func (r *CredentialsRepository) CreateTx(ctx context.Context, q Querier, cred *domain.UserCredential) error {
	query := `
		INSERT INTO user_credentials (user_id, password_hash, password_updated_at)
		VALUES ($1, $2, $3)
	`
	_, err := q.ExecContext(ctx, query, cred.UserID, cred.PasswordHash, cred.PasswordUpdatedAt)
	return err
}

// GetByUserID retrieves credentials for a user. Returns
// domain.ErrSocialAuthOnly if the user has no usable password.
func (r *CredentialsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserCredential, error) {
	query := `
		SELECT user_id, password_hash, password_updated_at
		FROM user_credentials
		WHERE user_id = $1
	`
	cred := &domain.UserCredential{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID, &cred.PasswordHash, &cred.PasswordUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSocialAuthOnly
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// ExistsByUserID reports whether the user has a usable password.
func (r *CredentialsRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_credentials WHERE user_id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists)
	return exists, err
}

// UpdateTx replaces the password hash within a transaction.
func (r *CredentialsRepository) UpdateTx(ctx context.Context, q Querier, userID uuid.UUID, passwordHash string) error {
	query := `
		UPDATE user_credentials
		SET password_hash = $2, password_updated_at = $3
		WHERE user_id = $1
	`
	result, err := q.ExecContext(ctx, query, userID, passwordHash, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSocialAuthOnly
	}
	return nil
}

// Update replaces the password hash.
func (r *CredentialsRepository) Update(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.UpdateTx(ctx, r.db, userID, passwordHash)
}
