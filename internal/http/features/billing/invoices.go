package billing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/http/middleware"
	"github.com/quixapro/quixa-api/internal/httputil"
	"github.com/quixapro/quixa-api/internal/repository"
)

// InvoicesHandler handles invoice CRUD endpoints.
type InvoicesHandler struct {
	logger     *slog.Logger
	repo       *repository.InvoicesRepository
	businesses *repository.BusinessesRepository
	customers  *repository.CustomersRepository
}

// NewInvoicesHandler creates a new invoices handler.
func NewInvoicesHandler(
	logger *slog.Logger,
	repo *repository.InvoicesRepository,
	businesses *repository.BusinessesRepository,
	customers *repository.CustomersRepository,
) *InvoicesHandler {
	return &InvoicesHandler{
		logger:     logger,
		repo:       repo,
		businesses: businesses,
		customers:  customers,
	}
}

// InvoiceItemRequest represents a single line item in an invoice payload.
type InvoiceItemRequest struct {
	Name     string `json:"item_name"`
	Quantity string `json:"item_quantity"`
	Price    string `json:"item_price"`
	Total    string `json:"item_total"`
}

// InvoiceRequest represents an invoice create/update payload.
type InvoiceRequest struct {
	BusinessID        uuid.UUID            `json:"business_id"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	StartDate         time.Time            `json:"start_date"`
	EndDate           time.Time            `json:"end_date"`
	Status            domain.InvoiceStatus `json:"status"`
	Currency          string               `json:"currency"`
	Amount            string               `json:"amount"`
	Note              *string              `json:"note,omitempty"`
	AttachedDocuments json.RawMessage      `json:"attached_documents,omitempty"`
	Items             []InvoiceItemRequest `json:"items"`
}

func (req *InvoiceRequest) validate() string {
	if req.BusinessID == uuid.Nil || req.CustomerID == uuid.Nil {
		return "business_id and customer_id are required"
	}
	if req.Amount == "" {
		return "amount is required"
	}
	switch req.Status {
	case domain.InvoiceStatusUnpaid, domain.InvoiceStatusPaid, domain.InvoiceStatusOverdue:
	default:
		return "status must be one of: unpaid, paid, overdue"
	}
	return ""
}

// checkOwnership verifies the referenced business and customer belong
// to the user, so an invoice can never link across owners.
func (h *InvoicesHandler) checkOwnership(r *http.Request, userID uuid.UUID, req *InvoiceRequest) (int, string) {
	if _, err := h.businesses.GetByID(r.Context(), userID, req.BusinessID); err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			return http.StatusNotFound, domain.ErrBusinessNotFound.Error()
		}
		return http.StatusInternalServerError, "failed to resolve business"
	}
	if _, err := h.customers.GetByID(r.Context(), userID, req.CustomerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return http.StatusNotFound, domain.ErrCustomerNotFound.Error()
		}
		return http.StatusInternalServerError, "failed to resolve customer"
	}
	return 0, ""
}

func buildItems(reqs []InvoiceItemRequest) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, 0, len(reqs))
	for _, it := range reqs {
		items = append(items, domain.InvoiceItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
		})
	}
	return items
}

// Create handles POST /invoices.
func (h *InvoicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.Error(w, http.StatusBadRequest, msg)
		return
	}
	if status, msg := h.checkOwnership(r, userID, &req); status != 0 {
		httputil.Error(w, status, msg)
		return
	}

	now := time.Now()
	inv := &domain.Invoice{
		ID:                uuid.New(),
		UserID:            userID,
		BusinessID:        req.BusinessID,
		CustomerID:        req.CustomerID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Status:            req.Status,
		Currency:          req.Currency,
		Amount:            req.Amount,
		Note:              req.Note,
		AttachedDocuments: req.AttachedDocuments,
		Items:             buildItems(req.Items),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := h.repo.Create(r.Context(), inv); err != nil {
		h.logger.Error("failed to create invoice", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to create invoice")
		return
	}

	httputil.JSON(w, http.StatusCreated, inv)
}

// List handles GET /invoices.
func (h *InvoicesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	invoices, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list invoices", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}

	httputil.JSON(w, http.StatusOK, invoices)
}

// Get handles GET /invoices/{id}.
func (h *InvoicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	inv, err := h.repo.GetByID(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrInvoiceNotFound.Error())
			return
		}
		h.logger.Error("failed to get invoice", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get invoice")
		return
	}

	httputil.JSON(w, http.StatusOK, inv)
}

// Update handles PUT /invoices/{id}. Line items are replaced wholesale.
func (h *InvoicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.Error(w, http.StatusBadRequest, msg)
		return
	}
	if status, msg := h.checkOwnership(r, userID, &req); status != 0 {
		httputil.Error(w, status, msg)
		return
	}

	inv := &domain.Invoice{
		ID:                id,
		UserID:            userID,
		BusinessID:        req.BusinessID,
		CustomerID:        req.CustomerID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Status:            req.Status,
		Currency:          req.Currency,
		Amount:            req.Amount,
		Note:              req.Note,
		AttachedDocuments: req.AttachedDocuments,
		Items:             buildItems(req.Items),
	}
	if err := h.repo.Update(r.Context(), inv); err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrInvoiceNotFound.Error())
			return
		}
		h.logger.Error("failed to update invoice", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to update invoice")
		return
	}

	updated, err := h.repo.GetByID(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("failed to get invoice after update", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get invoice")
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /invoices/{id}.
func (h *InvoicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	if err := h.repo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrInvoiceNotFound.Error())
			return
		}
		h.logger.Error("failed to delete invoice", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete invoice")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "Invoice deleted successfully."})
}
