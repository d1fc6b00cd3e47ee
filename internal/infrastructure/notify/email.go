package notify

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/pkg/config"
)

// EmailSender delivers verification codes over email
type EmailSender interface {
	SendOTP(email, code string) error
}

// SMTPEmailSender sends OTP mail through a plain SMTP relay.
// When no host is configured the code is only logged, so local and test
// environments work without a mail server.
type SMTPEmailSender struct {
	cfg    *config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPEmailSender creates the email sender
func NewSMTPEmailSender(cfg *config.SMTPConfig, logger *zap.Logger) *SMTPEmailSender {
	return &SMTPEmailSender{cfg: cfg, logger: logger}
}

// SendOTP sends the verification code to the given address
func (s *SMTPEmailSender) SendOTP(email, code string) error {
	if s.cfg == nil || s.cfg.Host == "" {
		if s.logger != nil {
			s.logger.Warn("smtp not configured, skipping email",
				zap.String("email", email),
				zap.String("otp", code),
			)
		}
		return nil
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your Email Verification Code\r\n\r\n"+
		"Your OTP for email verification is %s. It will expire in 10 minutes.\r\n",
		s.cfg.From, email, code)

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("verification email sent", zap.String("email", email))
	}
	return nil
}
