package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/pkg/config"
)

// SMSSender delivers verification codes over SMS
type SMSSender interface {
	SendOTP(phone, code string) error
}

// HTTPSMSSender posts OTP messages to an SMS gateway.
// When no gateway is configured the code is only logged.
type HTTPSMSSender struct {
	cfg    *config.SMSConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSMSSender creates the SMS sender
func NewHTTPSMSSender(cfg *config.SMSConfig, logger *zap.Logger) *HTTPSMSSender {
	return &HTTPSMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// SendOTP sends the verification code to the given phone number
func (s *HTTPSMSSender) SendOTP(phone, code string) error {
	if s.cfg == nil || s.cfg.BaseURL == "" {
		if s.logger != nil {
			s.logger.Warn("sms gateway not configured, skipping sms",
				zap.String("phone", phone),
				zap.String("otp", code),
			)
		}
		return nil
	}

	payload := smsRequest{
		To:      phone,
		From:    s.cfg.Sender,
		Message: fmt.Sprintf("Your verification code is %s. Expires in 10 minutes.", code),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.BaseURL+"/messages", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	if s.logger != nil {
		s.logger.Info("verification sms sent", zap.String("phone", phone))
	}
	return nil
}
