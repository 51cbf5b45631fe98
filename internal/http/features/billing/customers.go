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

// CustomersHandler handles customer CRUD endpoints.
type CustomersHandler struct {
	logger *slog.Logger
	repo   *repository.CustomersRepository
}

// NewCustomersHandler creates a new customers handler.
func NewCustomersHandler(logger *slog.Logger, repo *repository.CustomersRepository) *CustomersHandler {
	return &CustomersHandler{logger: logger, repo: repo}
}

// CustomerRequest represents a customer create/update payload.
type CustomerRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Address  *string `json:"address,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// Create handles POST /customers.
func (h *CustomersHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now()
	c := &domain.Customer{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		PhotoURL:  req.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(r.Context(), c); err != nil {
		h.logger.Error("failed to create customer", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to create customer")
		return
	}

	httputil.JSON(w, http.StatusCreated, c)
}

// List handles GET /customers.
func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	customers, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list customers", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	httputil.JSON(w, http.StatusOK, customers)
}

// Get handles GET /customers/{id}.
func (h *CustomersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	c, err := h.repo.GetByID(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrCustomerNotFound.Error())
			return
		}
		h.logger.Error("failed to get customer", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get customer")
		return
	}

	httputil.JSON(w, http.StatusOK, c)
}

// Update handles PUT /customers/{id}.
func (h *CustomersHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	c := &domain.Customer{
		ID:       id,
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		PhotoURL: req.PhotoURL,
	}
	if err := h.repo.Update(r.Context(), c); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrCustomerNotFound.Error())
			return
		}
		h.logger.Error("failed to update customer", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to update customer")
		return
	}

	updated, err := h.repo.GetByID(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("failed to get customer after update", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get customer")
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /customers/{id}.
func (h *CustomersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := h.repo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrCustomerNotFound.Error())
			return
		}
		h.logger.Error("failed to delete customer", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete customer")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully."})
}
