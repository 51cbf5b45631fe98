package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
)

// VerificationTokensRepository handles verification token persistence.
// Tokens are never deleted; superseded and redeemed tokens are marked
// consumed and kept as an audit trail.
type VerificationTokensRepository struct {
	db *sql.DB
}

// NewVerificationTokensRepository creates a new verification tokens repository.
func NewVerificationTokensRepository(db *sql.DB) *VerificationTokensRepository {
	return &VerificationTokensRepository{db: db}
}

// Create creates a new verification token.
func (r *VerificationTokensRepository) Create(ctx context.Context, token *domain.VerificationToken) error {
	return r.CreateTx(ctx, r.db, token)
}

// CreateTx creates a new verification token within a transaction.
func (r *VerificationTokensRepository) CreateTx(ctx context.Context, q Querier, token *domain.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (id, user_id, token_hash, kind, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.Kind,
		token.CreatedAt, token.ExpiresAt,
	)
	return err
}

// GetByUserAndHash retrieves a token by owner, value hash, and kind. The
// dual-key lookup prevents a token minted for one user from being
// redeemed against another user's identity claim.
func (r *VerificationTokensRepository) GetByUserAndHash(ctx context.Context, userID uuid.UUID, tokenHash string, kind domain.VerificationTokenKind) (*domain.VerificationToken, error) {
	query := `
		SELECT id, user_id, token_hash, kind, created_at, expires_at, consumed_at
		FROM verification_tokens
		WHERE user_id = $1 AND token_hash = $2 AND kind = $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	token := &domain.VerificationToken{}
	err := r.db.QueryRowContext(ctx, query, userID, tokenHash, kind).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.Kind,
		&token.CreatedAt, &token.ExpiresAt, &token.ConsumedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVerificationTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

// MarkConsumedTx marks a token as consumed within a transaction. The
// consumed_at IS NULL guard makes redemption single-use even under
// concurrent attempts: the second caller sees zero rows affected.
func (r *VerificationTokensRepository) MarkConsumedTx(ctx context.Context, q Querier, tokenID uuid.UUID) error {
	query := `
		UPDATE verification_tokens
		SET consumed_at = NOW()
		WHERE id = $1 AND consumed_at IS NULL
	`
	result, err := q.ExecContext(ctx, query, tokenID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrVerificationTokenNotFound
	}
	return nil
}

// InvalidateActiveTx marks all unconsumed tokens of a kind for a user as
// consumed, within a transaction. Called immediately before minting a
// replacement so at most one authoritative token per (user, kind) exists.
func (r *VerificationTokensRepository) InvalidateActiveTx(ctx context.Context, q Querier, userID uuid.UUID, kind domain.VerificationTokenKind) error {
	query := `
		UPDATE verification_tokens
		SET consumed_at = NOW()
		WHERE user_id = $1 AND kind = $2 AND consumed_at IS NULL
	`
	_, err := q.ExecContext(ctx, query, userID, kind)
	return err
}
