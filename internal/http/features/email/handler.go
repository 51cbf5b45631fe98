package email

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

// Handler handles email verification endpoints.
type Handler struct {
	logger              *slog.Logger
	verificationService *auth.VerificationService
	passwordService     *auth.PasswordService
}

// NewHandler creates a new email verification handler.
func NewHandler(
	logger *slog.Logger,
	verificationService *auth.VerificationService,
	passwordService *auth.PasswordService,
) *Handler {
	return &Handler{
		logger:              logger,
		verificationService: verificationService,
		passwordService:     passwordService,
	}
}

// VerifyEmailRequest represents an email verification request.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyEmail handles email verification.
// POST /auth/verify-email
//
// Every redemption failure, including an already-verified account,
// yields the same 400 body so callers cannot probe account state.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Code == "" {
		httputil.Error(w, http.StatusBadRequest, "email and code are required")
		return
	}

	user, err := h.verificationService.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidVerificationCode),
			errors.Is(err, domain.ErrEmailAlreadyVerified):
			httputil.Error(w, http.StatusBadRequest, domain.ErrInvalidVerificationCode.Error())
		default:
			h.logger.Error("email verification failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "email verification failed")
		}
		return
	}

	h.logger.Info("email verified", "user_id", user.ID)

	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "Email verified successfully."})
}

// ResendVerification re-issues a verification code for the
// authenticated user.
// POST /auth/resend-verification
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	user, err := h.passwordService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get user", "error", err, "user_id", userID)
		httputil.Error(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	if _, err := h.verificationService.SendEmailVerification(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyVerified):
			httputil.Error(w, http.StatusBadRequest, domain.ErrEmailAlreadyVerified.Error())
		case errors.Is(err, domain.ErrEmailDelivery):
			h.logger.Error("verification email dispatch failed", "error", err, "user_id", userID)
			httputil.ErrorCode(w, http.StatusServiceUnavailable,
				"could not send verification email, please try again later", "EMAIL_SERVICE_ERROR")
		default:
			h.logger.Error("failed to resend verification", "error", err, "user_id", userID)
			httputil.Error(w, http.StatusInternalServerError, "failed to resend verification")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{
		Message: "A new verification code has been sent to your email.",
	})
}
