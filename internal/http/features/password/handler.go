package password

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

// Handler handles password authentication endpoints.
type Handler struct {
	logger              *slog.Logger
	passwordService     *auth.PasswordService
	sessionService      *auth.SessionService
	verificationService *auth.VerificationService
}

// NewHandler creates a new password handler.
func NewHandler(
	logger *slog.Logger,
	passwordService *auth.PasswordService,
	sessionService *auth.SessionService,
	verificationService *auth.VerificationService,
) *Handler {
	return &Handler{
		logger:              logger,
		passwordService:     passwordService,
		sessionService:      sessionService,
		verificationService: verificationService,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles user registration.
// POST /auth/register
//
// The user row, credentials, verification code, and the verification
// email are one atomic unit: if the email cannot be sent the account is
// not created and the client gets a 503 with a distinct error code.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.passwordService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			httputil.Error(w, http.StatusConflict, domain.ErrUserAlreadyExists.Error())
		case errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrPasswordTooShort):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrEmailDelivery):
			h.logger.Error("verification email dispatch failed during registration", "error", err)
			httputil.ErrorCode(w, http.StatusServiceUnavailable,
				"could not send verification email, please try again later", "EMAIL_SERVICE_ERROR")
		default:
			h.logger.Error("registration failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	tokens, err := h.sessionService.IssueSession(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err, "user_id", user.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)

	httputil.JSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"tokens":  tokens,
		"message": "Registration successful. A verification code has been sent to your email.",
	})
}

// Login handles user login.
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.passwordService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSocialAuthOnly):
			httputil.Error(w, http.StatusBadRequest, domain.ErrSocialAuthOnly.Error())
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Error(w, http.StatusUnauthorized, "invalid email or password")
		default:
			h.logger.Error("authentication failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	tokens, err := h.sessionService.IssueSession(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err, "user_id", user.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"access":  tokens.AccessToken,
		"refresh": tokens.RefreshToken,
		"user":    user,
	})
}

// ForgotPasswordRequest represents a password reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents a password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ForgotPassword handles password reset requests.
// POST /auth/forgot-password
//
// Unknown email is an explicit 400, matching the product's existing
// behavior of giving direct feedback over enumeration resistance.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.verificationService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			httputil.Error(w, http.StatusBadRequest, domain.ErrUserNotFound.Error())
		case errors.Is(err, domain.ErrSocialAuthOnly):
			httputil.Error(w, http.StatusBadRequest, domain.ErrSocialAuthOnly.Error())
		case errors.Is(err, domain.ErrEmailDelivery):
			h.logger.Error("password reset email dispatch failed", "error", err)
			httputil.ErrorCode(w, http.StatusServiceUnavailable,
				"could not send password reset email, please try again later", "EMAIL_SERVICE_ERROR")
		default:
			h.logger.Error("password reset request failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "password reset request failed")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{
		Message: "A password reset link has been sent to your email.",
	})
}

// ResetPassword handles password resets.
// POST /auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "email, token and new password are required")
		return
	}

	err := h.verificationService.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidResetToken):
			httputil.Error(w, http.StatusBadRequest, domain.ErrInvalidResetToken.Error())
		case errors.Is(err, domain.ErrPasswordTooShort):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("password reset failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "password reset failed")
		}
		return
	}

	// Changed credentials invalidate every open session.
	if user, err := h.passwordService.GetUserByEmail(r.Context(), req.Email); err == nil {
		if err := h.sessionService.RevokeAllSessions(r.Context(), user.ID); err != nil {
			h.logger.Error("failed to revoke sessions after password reset", "error", err, "user_id", user.ID)
		}
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{
		Message: "Password reset successful. You can now log in with your new password.",
	})
}

// ChangePasswordRequest represents an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles authenticated password changes.
// POST /auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "old and new passwords are required")
		return
	}

	err := h.passwordService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSocialAuthOnly):
			httputil.Error(w, http.StatusBadRequest, domain.ErrSocialAuthOnly.Error())
		case errors.Is(err, domain.ErrOldPasswordIncorrect):
			httputil.Error(w, http.StatusBadRequest, domain.ErrOldPasswordIncorrect.Error())
		case errors.Is(err, domain.ErrPasswordTooShort):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("password change failed", "error", err, "user_id", userID)
			httputil.Error(w, http.StatusInternalServerError, "password change failed")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "Password changed successfully."})
}
