// Package notify delivers the requester notification that follows a review
// status change. Delivery is best effort: it never fails the status update.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"legalhub/internal/email"
)

// Notification describes a status change on a review request
type Notification struct {
	RequestID      string
	ContractTitle  string
	NewStatusLabel string
	ActorName      string
	RequesterID    string
}

// Notifier delivers one notification. The boolean reports whether anything
// was actually sent.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (bool, error)
}

// EmailLookup resolves a user's e-mail address. An empty result means unknown.
type EmailLookup interface {
	GetEmail(ctx context.Context, userID string) (string, error)
}

// EmailNotifier mails the requester through an email.Sender
type EmailNotifier struct {
	sender  email.Sender
	lookup  EmailLookup
	appURL  string
	nowFunc func() time.Time
}

// NewEmailNotifier creates a notifier. appURL is used to build the request link.
func NewEmailNotifier(sender email.Sender, lookup EmailLookup, appURL string) *EmailNotifier {
	return &EmailNotifier{
		sender:  sender,
		lookup:  lookup,
		appURL:  strings.TrimRight(appURL, "/"),
		nowFunc: time.Now,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, note Notification) (bool, error) {
	if n.sender == nil || !n.sender.Enabled() {
		slog.Warn("Email service not configured, skipping notification", "request_id", note.RequestID)
		return false, nil
	}

	to, err := n.lookup.GetEmail(ctx, note.RequesterID)
	if err != nil {
		return false, fmt.Errorf("failed to look up requester email: %w", err)
	}
	if to == "" {
		slog.Warn("Requester email not found", "request_id", note.RequestID, "requester_id", note.RequesterID)
		return false, nil
	}

	data := email.StatusChange{
		ContractTitle:  note.ContractTitle,
		NewStatusLabel: note.NewStatusLabel,
		UpdatedBy:      note.ActorName,
		UpdatedAt:      n.nowFunc(),
	}
	if n.appURL != "" {
		data.Link = n.appURL + "/review-requests/" + note.RequestID
	}

	msg, err := email.StatusChangeMessage(to, data)
	if err != nil {
		return false, err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
