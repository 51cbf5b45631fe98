package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quixapro/quixa-api/internal/auth"
	"github.com/quixapro/quixa-api/internal/config"
	"github.com/quixapro/quixa-api/internal/http/features/billing"
	"github.com/quixapro/quixa-api/internal/http/features/email"
	"github.com/quixapro/quixa-api/internal/http/features/google"
	"github.com/quixapro/quixa-api/internal/http/features/me"
	"github.com/quixapro/quixa-api/internal/http/features/password"
	"github.com/quixapro/quixa-api/internal/http/features/session"
	"github.com/quixapro/quixa-api/internal/http/middleware"
	"github.com/quixapro/quixa-api/internal/httputil"
	"github.com/quixapro/quixa-api/internal/repository"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger              *slog.Logger
	PasswordService     *auth.PasswordService
	GoogleService       *auth.GoogleService
	SessionService      *auth.SessionService
	VerificationService *auth.VerificationService
	BusinessesRepo      *repository.BusinessesRepository
	CustomersRepo       *repository.CustomersRepository
	InvoicesRepo        *repository.InvoicesRepository
	RateLimitConfig     config.RateLimitConfig
	SecurityHeaders     config.SecurityHeadersConfig
	Validation          config.ValidationConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	requireAuth := middleware.Auth(cfg.SessionService)

	passwordHandler := password.NewHandler(
		cfg.Logger,
		cfg.PasswordService,
		cfg.SessionService,
		cfg.VerificationService,
	)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/auth/register", passwordHandler.Register)
		r.Post("/auth/login", passwordHandler.Login)
	})
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["reset"])
		r.Post("/auth/forgot-password", passwordHandler.ForgotPassword)
		r.Post("/auth/reset-password", passwordHandler.ResetPassword)
	})
	r.With(requireAuth).Post("/auth/change-password", passwordHandler.ChangePassword)

	emailHandler := email.NewHandler(cfg.Logger, cfg.VerificationService, cfg.PasswordService)
	r.With(rateLimiters["verify"]).Post("/auth/verify-email", emailHandler.VerifyEmail)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(rateLimiters["verify"])
		r.Post("/auth/resend-verification", emailHandler.ResendVerification)
	})

	if cfg.GoogleService != nil {
		googleHandler := google.NewHandler(cfg.Logger, cfg.GoogleService, cfg.SessionService)
		r.With(rateLimiters["auth"]).Post("/auth/google", googleHandler.Login)
	}

	sessionHandler := session.NewHandler(cfg.Logger, cfg.SessionService, cfg.PasswordService)
	r.With(rateLimiters["refresh"]).Post("/auth/refresh", sessionHandler.Refresh)
	r.With(requireAuth).Post("/auth/logout", sessionHandler.Logout)

	meHandler := me.NewHandler(cfg.Logger, cfg.PasswordService)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(rateLimiters["profile"])
		r.Get("/me", meHandler.GetMe)
		r.Patch("/me", meHandler.UpdateMe)
	})

	businessesHandler := billing.NewBusinessesHandler(cfg.Logger, cfg.BusinessesRepo)
	customersHandler := billing.NewCustomersHandler(cfg.Logger, cfg.CustomersRepo)
	invoicesHandler := billing.NewInvoicesHandler(cfg.Logger, cfg.InvoicesRepo, cfg.BusinessesRepo, cfg.CustomersRepo)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/businesses", businessesHandler.Create)
		r.Get("/businesses", businessesHandler.List)
		r.Get("/businesses/{id}", businessesHandler.Get)
		r.Put("/businesses/{id}", businessesHandler.Update)
		r.Delete("/businesses/{id}", businessesHandler.Delete)

		r.Post("/customers", customersHandler.Create)
		r.Get("/customers", customersHandler.List)
		r.Get("/customers/{id}", customersHandler.Get)
		r.Put("/customers/{id}", customersHandler.Update)
		r.Delete("/customers/{id}", customersHandler.Delete)

		r.Post("/invoices", invoicesHandler.Create)
		r.Get("/invoices", invoicesHandler.List)
		r.Get("/invoices/{id}", invoicesHandler.Get)
		r.Put("/invoices/{id}", invoicesHandler.Update)
		r.Delete("/invoices/{id}", invoicesHandler.Delete)
	})

	return r
}
