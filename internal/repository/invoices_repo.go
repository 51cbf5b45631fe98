package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
)

// InvoicesRepository handles invoice and line-item persistence, scoped
// by owning user. An invoice and its items are written as one unit.
type InvoicesRepository struct {
	db *sql.DB
}

// NewInvoicesRepository creates a new invoices repository.
func NewInvoicesRepository(db *sql.DB) *InvoicesRepository {
	return &InvoicesRepository{db: db}
}

// Create creates an invoice together with its line items in a transaction.
func (r *InvoicesRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO invoices (id, user_id, business_id, customer_id, start_date, end_date,
				status, currency, amount, note, attached_documents, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		_, err := tx.ExecContext(ctx, query,
			inv.ID, inv.UserID, inv.BusinessID, inv.CustomerID, inv.StartDate, inv.EndDate,
			inv.Status, inv.Currency, inv.Amount, inv.Note, inv.AttachedDocuments,
			inv.CreatedAt, inv.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return r.insertItemsTx(ctx, tx, inv.ID, inv.Items)
	})
}

func (r *InvoicesRepository) insertItemsTx(ctx context.Context, tx *sql.Tx, invoiceID uuid.UUID, items []domain.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, item_name, item_quantity, item_price, item_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range items {
		item := &items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = invoiceID
		_, err := tx.ExecContext(ctx, query,
			item.ID, item.InvoiceID, item.Name, item.Quantity, item.Price, item.Total,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves an invoice with its line items, owned by the user.
func (r *InvoicesRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Invoice, error) {
	query := `
		SELECT id, user_id, business_id, customer_id, start_date, end_date,
		       status, currency, amount, note, attached_documents, created_at, updated_at
		FROM invoices
		WHERE id = $1 AND user_id = $2
	`
	inv := &domain.Invoice{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&inv.ID, &inv.UserID, &inv.BusinessID, &inv.CustomerID, &inv.StartDate, &inv.EndDate,
		&inv.Status, &inv.Currency, &inv.Amount, &inv.Note, &inv.AttachedDocuments,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *InvoicesRepository) listItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, item_name, item_quantity, item_price, item_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.InvoiceItem{}
	for rows.Next() {
		var item domain.InvoiceItem
		err := rows.Scan(&item.ID, &item.InvoiceID, &item.Name, &item.Quantity, &item.Price, &item.Total)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListByUser lists all invoices owned by a user, newest first, without
// line items.
func (r *InvoicesRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Invoice, error) {
	query := `
		SELECT id, user_id, business_id, customer_id, start_date, end_date,
		       status, currency, amount, note, attached_documents, created_at, updated_at
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []*domain.Invoice{}
	for rows.Next() {
		inv := &domain.Invoice{}
		err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.BusinessID, &inv.CustomerID, &inv.StartDate, &inv.EndDate,
			&inv.Status, &inv.Currency, &inv.Amount, &inv.Note, &inv.AttachedDocuments,
			&inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Update updates invoice fields and replaces its line items in a
// transaction.
func (r *InvoicesRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE invoices
			SET business_id = $3, customer_id = $4, start_date = $5, end_date = $6,
			    status = $7, currency = $8, amount = $9, note = $10, attached_documents = $11,
			    updated_at = $12
			WHERE id = $1 AND user_id = $2
		`
		result, err := tx.ExecContext(ctx, query,
			inv.ID, inv.UserID, inv.BusinessID, inv.CustomerID, inv.StartDate, inv.EndDate,
			inv.Status, inv.Currency, inv.Amount, inv.Note, inv.AttachedDocuments, time.Now(),
		)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrInvoiceNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		return r.insertItemsTx(ctx, tx, inv.ID, inv.Items)
	})
}

// Delete deletes an invoice owned by the given user. Items cascade.
func (r *InvoicesRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}
