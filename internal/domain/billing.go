package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Business is a billing entity owned by a user.
type Business struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Customer is a billing counterparty owned by a user.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   *string   `json:"address,omitempty"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice links a business and a customer, both owned by the same user.
// Amounts are fixed-point strings formatted by the database (numeric),
// not floats.
type Invoice struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	BusinessID        uuid.UUID       `json:"business_id"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	Status            InvoiceStatus   `json:"status"`
	Currency          string          `json:"currency"`
	Amount            string          `json:"amount"`
	Note              *string         `json:"note,omitempty"`
	AttachedDocuments json.RawMessage `json:"attached_documents,omitempty"`
	Items             []InvoiceItem   `json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InvoiceItem is a single line item on an invoice.
type InvoiceItem struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Name      string    `json:"item_name"`
	Quantity  string    `json:"item_quantity"`
	Price     string    `json:"item_price"`
	Total     string    `json:"item_total"`
}
