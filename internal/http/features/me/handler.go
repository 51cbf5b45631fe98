package me

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quixapro/quixa-api/internal/auth"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/http/middleware"
	"github.com/quixapro/quixa-api/internal/httputil"
)

// Handler handles user profile endpoints.
type Handler struct {
	logger          *slog.Logger
	passwordService *auth.PasswordService
}

// NewHandler creates a new profile handler.
func NewHandler(logger *slog.Logger, passwordService *auth.PasswordService) *Handler {
	return &Handler{logger: logger, passwordService: passwordService}
}

// GetMe returns the authenticated user's profile.
// GET /me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	user, err := h.passwordService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to get user", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// UpdateMeRequest represents a profile update. Omitted fields keep
// their current value.
type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// UpdateMe updates the authenticated user's profile.
// PATCH /me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := h.passwordService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to get user", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	name := current.Name
	if req.Name != nil {
		name = *req.Name
	}
	photoURL := current.PhotoURL
	if req.PhotoURL != nil {
		photoURL = req.PhotoURL
	}

	user, err := h.passwordService.UpdateProfile(r.Context(), userID, name, photoURL)
	if err != nil {
		h.logger.Error("failed to update profile", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}
