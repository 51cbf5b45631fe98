package google

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quixapro/quixa-api/internal/auth"
	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/httputil"
)

// Handler handles Google social login.
type Handler struct {
	logger         *slog.Logger
	googleService  *auth.GoogleService
	sessionService *auth.SessionService
}

// NewHandler creates a new Google login handler.
func NewHandler(logger *slog.Logger, googleService *auth.GoogleService, sessionService *auth.SessionService) *Handler {
	return &Handler{
		logger:         logger,
		googleService:  googleService,
		sessionService: sessionService,
	}
}

// LoginRequest carries the Google OAuth access token obtained by the
// client.
type LoginRequest struct {
	AccessToken string `json:"access_token"`
}

// Login handles Google social login.
// POST /auth/google
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AccessToken == "" {
		httputil.Error(w, http.StatusBadRequest, "access_token is required")
		return
	}

	user, err := h.googleService.Authenticate(r.Context(), req.AccessToken)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			httputil.Error(w, http.StatusUnauthorized, domain.ErrAuthenticationFailed.Error())
			return
		}
		h.logger.Error("google login failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "google login failed")
		return
	}

	tokens, err := h.sessionService.IssueSession(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err, "user_id", user.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}
