package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
)

// CustomersRepository handles customer persistence, scoped by owning user.
type CustomersRepository struct {
	db *sql.DB
}

// NewCustomersRepository creates a new customers repository.
func NewCustomersRepository(db *sql.DB) *CustomersRepository {
	return &CustomersRepository{db: db}
}

// Create creates a new customer.
func (r *CustomersRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, name, email, address, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Address, c.PhotoURL, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// GetByID retrieves a customer owned by the given user.
func (r *CustomersRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, user_id, name, email, address, photo_url, created_at, updated_at
		FROM customers
		WHERE id = $1 AND user_id = $2
	`
	c := &domain.Customer{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Address, &c.PhotoURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByUser lists all customers owned by a user, newest first.
func (r *CustomersRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Customer, error) {
	query := `
		SELECT id, user_id, name, email, address, photo_url, created_at, updated_at
		FROM customers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		c := &domain.Customer{}
		err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Email, &c.Address, &c.PhotoURL, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Update updates a customer owned by the given user.
func (r *CustomersRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $3, email = $4, address = $5, photo_url = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Address, c.PhotoURL, time.Now(),
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Delete deletes a customer owned by the given user.
func (r *CustomersRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}
