// Package notify delivers the daily summary over WhatsApp through the
// Twilio REST API.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmops/mrep/backend-go/internal/config"
	"github.com/pharmops/mrep/backend-go/pkg/logger"
)

const (
	twilioBaseURL  = "https://api.twilio.com/2010-04-01"
	requestTimeout = 15 * time.Second
	retryBackoff   = 2 * time.Second
)

// Sender delivers a text message to the configured recipients.
type Sender interface {
	Send(ctx context.Context, message string) error
}

// WhatsAppSender sends through Twilio with bounded retries per recipient.
// A recipient that still fails after the retry budget is logged and skipped;
// one unreachable phone must not block the rest of the distribution list.
type WhatsAppSender struct {
	cfg     config.WhatsAppConfig
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	return &WhatsAppSender{
		cfg:     cfg,
		baseURL: twilioBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		log:     logger.With("whatsapp"),
	}
}

func (s *WhatsAppSender) Send(ctx context.Context, message string) error {
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" {
		return fmt.Errorf("whatsapp sender not configured")
	}
	if len(s.cfg.To) == 0 {
		return fmt.Errorf("no whatsapp recipients configured")
	}

	var failed []string
	for _, to := range s.cfg.To {
		if err := s.sendWithRetry(ctx, to, message); err != nil {
			s.log.Error().Str("to", to).Err(err).Msg("giving up on recipient")
			failed = append(failed, to)
		}
	}

	if len(failed) == len(s.cfg.To) {
		return fmt.Errorf("delivery failed for all %d recipients", len(failed))
	}
	return nil
}

func (s *WhatsAppSender) sendWithRetry(ctx context.Context, to, message string) error {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		lastErr = s.sendOne(ctx, to, message)
		if lastErr == nil {
			return nil
		}
		s.log.Warn().Str("to", to).Int("attempt", attempt).Err(lastErr).Msg("send failed")
		if attempt == s.cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return lastErr
}

func (s *WhatsAppSender) sendOne(ctx context.Context, to, message string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.cfg.AccountSID)

	form := url.Values{}
	form.Set("From", whatsappAddr(s.cfg.From))
	form.Set("To", whatsappAddr(to))
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func whatsappAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// NoopSender is wired when WhatsApp delivery is disabled; messages go to the
// log instead.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, message string) error {
	logger.Log.Info().Str("message", message).Msg("whatsapp disabled, dropping message")
	return nil
}
