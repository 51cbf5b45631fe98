package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without JWT_SECRET")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 15m", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("RefreshTokenTTL = %v, want 168h", cfg.RefreshTokenTTL)
	}
	if cfg.EmailVerificationTTL != 15*time.Minute {
		t.Errorf("EmailVerificationTTL = %v, want 15m", cfg.EmailVerificationTTL)
	}
	if cfg.PasswordResetTTL != time.Hour {
		t.Errorf("PasswordResetTTL = %v, want 1h", cfg.PasswordResetTTL)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("rate limiting should be enabled by default")
	}
	if !cfg.SecurityHeaders.Enabled {
		t.Error("security headers should be enabled by default")
	}
	if cfg.Validation.MaxRequestBodySize != 1<<20 {
		t.Errorf("MaxRequestBodySize = %d, want %d", cfg.Validation.MaxRequestBodySize, 1<<20)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("EMAIL_VERIFICATION_TTL", "30m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.AccessTokenTTL != 5*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 5m", cfg.AccessTokenTTL)
	}
	if cfg.EmailVerificationTTL != 30*time.Minute {
		t.Errorf("EmailVerificationTTL = %v, want 30m", cfg.EmailVerificationTTL)
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limiting should be disabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want default 8080", cfg.ServerPort)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want default 15m", cfg.AccessTokenTTL)
	}
}

func TestHasSMTP(t *testing.T) {
	c := &Config{}
	if c.HasSMTP() {
		t.Error("HasSMTP() = true with no SMTP settings")
	}
	c.SMTPHost = "smtp.example.com"
	c.SMTPFrom = "noreply@example.com"
	if !c.HasSMTP() {
		t.Error("HasSMTP() = false with host and from set")
	}
}
