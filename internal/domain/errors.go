package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound         = errors.New("user with this email does not exist")
	ErrUserAlreadyExists    = errors.New("this email is already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSocialAuthOnly       = errors.New("this account uses social authentication and doesn't have a password")
	ErrAuthenticationFailed = errors.New("authentication with identity provider failed")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrSessionRevoked       = errors.New("session revoked")
	ErrInvalidToken         = errors.New("invalid token")
)

// Verification errors. Redemption failures are deliberately coarse:
// "wrong code", "expired code", and "no such account" all surface as the
// same error so callers cannot probe for account existence.
var (
	ErrVerificationTokenNotFound = errors.New("verification token not found")
	ErrInvalidVerificationCode   = errors.New("invalid or expired verification code")
	ErrInvalidResetToken         = errors.New("invalid or expired reset token")
	ErrEmailAlreadyVerified      = errors.New("email is already verified")
)

// Validation errors
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
)

// External dependency errors
var (
	ErrEmailDelivery = errors.New("failed to send email")
)

// Resource errors
var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
)
