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

// BusinessesHandler handles business CRUD endpoints.
type BusinessesHandler struct {
	logger *slog.Logger
	repo   *repository.BusinessesRepository
}

// NewBusinessesHandler creates a new businesses handler.
func NewBusinessesHandler(logger *slog.Logger, repo *repository.BusinessesRepository) *BusinessesHandler {
	return &BusinessesHandler{logger: logger, repo: repo}
}

// BusinessRequest represents a business create/update payload.
type BusinessRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phone_number"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// Create handles POST /businesses.
func (h *BusinessesHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req BusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now()
	b := &domain.Business{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		PhotoURL:    req.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.repo.Create(r.Context(), b); err != nil {
		h.logger.Error("failed to create business", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to create business")
		return
	}

	httputil.JSON(w, http.StatusCreated, b)
}

// List handles GET /businesses.
func (h *BusinessesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	businesses, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list businesses", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to list businesses")
		return
	}

	httputil.JSON(w, http.StatusOK, businesses)
}

// Get handles GET /businesses/{id}.
func (h *BusinessesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid business id")
		return
	}

	b, err := h.repo.GetByID(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrBusinessNotFound.Error())
			return
		}
		h.logger.Error("failed to get business", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get business")
		return
	}

	httputil.JSON(w, http.StatusOK, b)
}

// Update handles PUT /businesses/{id}.
func (h *BusinessesHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid business id")
		return
	}

	var req BusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	b := &domain.Business{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		PhotoURL:    req.PhotoURL,
	}
	if err := h.repo.Update(r.Context(), b); err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrBusinessNotFound.Error())
			return
		}
		h.logger.Error("failed to update business", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to update business")
		return
	}

	updated, err := h.repo.GetByID(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("failed to get business after update", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get business")
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /businesses/{id}.
func (h *BusinessesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid business id")
		return
	}

	if err := h.repo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			httputil.Error(w, http.StatusNotFound, domain.ErrBusinessNotFound.Error())
			return
		}
		h.logger.Error("failed to delete business", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete business")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "Business deleted successfully."})
}
