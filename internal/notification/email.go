package notification

import (
	"fmt"
	"net/smtp"

	"github.com/quixapro/quixa-api/internal/domain"
)

// Sender delivers verification and password-reset emails. Implementations
// must wrap delivery failures in domain.ErrEmailDelivery so flows can
// roll back state changes made in the same logical operation.
type Sender interface {
	SendVerificationEmail(toEmail, toName, code string) error
	SendPasswordResetEmail(toEmail, toName, token, resetURL string) error
}

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// EmailService sends transactional email over SMTP.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendVerificationEmail sends the 4-digit email verification code.
func (s *EmailService) SendVerificationEmail(toEmail, toName, code string) error {
	subject := "Verify Your Email Address"
	body := fmt.Sprintf(`Hello %s,

Thank you for registering! Please use the verification code below to verify your email address:

Verification Code: %s

This code will expire in 15 minutes.

If you didn't create an account, please ignore this email.

Best regards,
QuixaPro Team`, toName, code)

	return s.send(toEmail, toName, subject, body)
}

// SendPasswordResetEmail sends the raw reset token and, if a reset URL
// is configured, a link embedding it.
func (s *EmailService) SendPasswordResetEmail(toEmail, toName, token, resetURL string) error {
	subject := "Password Reset Request"

	var body string
	if resetURL != "" {
		body = fmt.Sprintf(`Hello %s,

We received a request to reset your password. Click the link below to reset your password:

%s?token=%s

If you prefer, you can use this token: %s

This link will expire in 1 hour.

If you didn't request a password reset, please ignore this email.

Best regards,
QuixaPro Team`, toName, resetURL, token, token)
	} else {
		body = fmt.Sprintf(`Hello %s,

We received a request to reset your password. Please use the token below to reset your password:

Reset Token: %s

This token will expire in 1 hour.

If you didn't request a password reset, please ignore this email.

Best regards,
QuixaPro Team`, toName, token)
	}

	return s.send(toEmail, toName, subject, body)
}

func (s *EmailService) send(to, toName, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s <%s>\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, toName, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}
	return nil
}
