package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Verification token value policy. The purpose governs the format:
// email verification uses a short numeric code typed by a human,
// password reset uses a high-entropy string embedded in a link.
const (
	// Numeric code space is 1000..9999. Collisions across users are
	// harmless because redemption is keyed by (user, code, purpose).
	numericCodeMin  = 1000
	numericCodeSpan = 9000

	// Raw bytes of entropy in a password reset token.
	ResetTokenLen = 32
)

// GenerateToken returns a URL-safe random string with n bytes of entropy.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateNumericCode returns a 4-digit verification code in 1000..9999.
func GenerateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(numericCodeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()+numericCodeMin), nil
}

// HashToken returns the hex-encoded SHA-256 of a raw token value. Only
// hashes are persisted; a leaked token table reveals no redeemable values.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
