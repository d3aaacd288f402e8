// Package email renders LegalHub e-mails and delivers them through a
// transactional provider.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"legalhub/internal/config"
)

// ErrNotConfigured is returned when no delivery provider is configured
var ErrNotConfigured = errors.New("email service not configured")

// Message is a rendered e-mail ready for delivery
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers rendered messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
	// Enabled reports whether the sender can deliver at all
	Enabled() bool
}

// NewSender builds the sender selected by EMAIL_PROVIDER
func NewSender(cfg *config.EmailConfig) (Sender, error) {
	switch cfg.Provider {
	case "resend":
		return NewResendSender(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.From, &http.Client{Timeout: 15 * time.Second}), nil
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "", "none":
		return NoopSender{}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// NoopSender drops every message
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error { return ErrNotConfigured }

func (NoopSender) Enabled() bool { return false }
