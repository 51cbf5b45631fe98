package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quixapro/quixa-api/internal/auth"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/httputil"
)

// Handler handles session lifecycle endpoints.
type Handler struct {
	logger          *slog.Logger
	sessionService  *auth.SessionService
	passwordService *auth.PasswordService
}

// NewHandler creates a new session handler.
func NewHandler(logger *slog.Logger, sessionService *auth.SessionService, passwordService *auth.PasswordService) *Handler {
	return &Handler{
		logger:          logger,
		sessionService:  sessionService,
		passwordService: passwordService,
	}
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a live refresh token for a fresh token pair. The
// presented token is rotated out in the process.
// POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	userID, err := h.sessionService.SessionUserID(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	user, err := h.passwordService.GetUserByID(r.Context(), userID)
	if err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	tokens, err := h.sessionService.RefreshSession(r.Context(), user, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound),
			errors.Is(err, domain.ErrSessionExpired),
			errors.Is(err, domain.ErrSessionRevoked):
			httputil.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
		default:
			h.logger.Error("token refresh failed", "error", err, "user_id", userID)
			httputil.Error(w, http.StatusInternalServerError, "token refresh failed")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, tokens)
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented refresh token. A malformed or unknown
// token is a rejected input, not a fault.
// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	if err := h.sessionService.RevokeSession(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			httputil.Error(w, http.StatusBadRequest, domain.ErrInvalidToken.Error())
			return
		}
		h.logger.Error("logout failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "logout failed")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully."})
}
