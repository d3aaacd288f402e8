package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mail "github.com/go-mail/mail/v2"

	"legalhub/internal/config"
)

// SMTPSender delivers messages through an SMTP relay
type SMTPSender struct {
	cfg *config.EmailConfig
}

// NewSMTPSender creates an SMTP sender
func NewSMTPSender(cfg *config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

func (s *SMTPSender) dialer(ctx context.Context) *mail.Dialer {
	d := mail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUsername, s.cfg.SMTPPassword)
	if s.cfg.SMTPStartTLS {
		d.StartTLSPolicy = mail.MandatoryStartTLS
		d.TLSConfig = &tls.Config{ServerName: s.cfg.SMTPHost}
	} else {
		d.StartTLSPolicy = mail.NoStartTLS
	}
	if deadline, ok := ctx.Deadline(); ok {
		d.Timeout = time.Until(deadline)
	}
	return d
}

// Send delivers msg to every recipient in a single SMTP transaction
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer(ctx).DialAndSend(m); err != nil {
		slog.Error("Failed to send email", "host", s.cfg.SMTPHost, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent successfully", "to", strings.Join(msg.To, ","), "provider", "smtp")
	return nil
}
