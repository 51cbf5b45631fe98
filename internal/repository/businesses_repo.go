package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
)

// BusinessesRepository handles business persistence. All reads and
// writes are scoped by owning user.
type BusinessesRepository struct {
	db *sql.DB
}

// NewBusinessesRepository creates a new businesses repository.
func NewBusinessesRepository(db *sql.DB) *BusinessesRepository {
	return &BusinessesRepository{db: db}
}

// Create creates a new business.
func (r *BusinessesRepository) Create(ctx context.Context, b *domain.Business) error {
	query := `
		INSERT INTO businesses (id, user_id, name, email, address, phone_number, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Name, b.Email, b.Address, b.PhoneNumber, b.PhotoURL,
		b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// GetByID retrieves a business owned by the given user.
func (r *BusinessesRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Business, error) {
	query := `
		SELECT id, user_id, name, email, address, phone_number, photo_url, created_at, updated_at
		FROM businesses
		WHERE id = $1 AND user_id = $2
	`
	b := &domain.Business{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&b.ID, &b.UserID, &b.Name, &b.Email, &b.Address, &b.PhoneNumber, &b.PhotoURL,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListByUser lists all businesses owned by a user, newest first.
func (r *BusinessesRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Business, error) {
	query := `
		SELECT id, user_id, name, email, address, phone_number, photo_url, created_at, updated_at
		FROM businesses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []*domain.Business{}
	for rows.Next() {
		b := &domain.Business{}
		err := rows.Scan(
			&b.ID, &b.UserID, &b.Name, &b.Email, &b.Address, &b.PhoneNumber, &b.PhotoURL,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

// Update updates a business owned by the given user.
func (r *BusinessesRepository) Update(ctx context.Context, b *domain.Business) error {
	query := `
		UPDATE businesses
		SET name = $3, email = $4, address = $5, phone_number = $6, photo_url = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Name, b.Email, b.Address, b.PhoneNumber, b.PhotoURL, time.Now(),
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrBusinessNotFound
	}
	return nil
}

// Delete deletes a business owned by the given user.
func (r *BusinessesRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM businesses WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrBusinessNotFound
	}
	return nil
}
