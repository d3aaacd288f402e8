package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"legalhub/internal/email"
	"legalhub/internal/models"
	"legalhub/internal/repository"
	"legalhub/internal/service"
)

// RequestSource lists open review requests by request deadline
type RequestSource interface {
	ListOpenDueBetween(ctx context.Context, from, to models.Date) ([]models.ReviewRequest, error)
}

// ContractSource lists stored contracts
type ContractSource interface {
	List(ctx context.Context, f repository.ContractFilter) ([]models.Contract, error)
}

// RecipientSource lists the legal team
type RecipientSource interface {
	ListAdminLike(ctx context.Context) ([]models.Profile, error)
}

// DeadlineDigest mails upcoming review and contract deadlines to the legal team
type DeadlineDigest struct {
	requests   RequestSource
	contracts  ContractSource
	recipients RecipientSource
	sender     email.Sender
	lookahead  int
	appURL     string
	now        func() time.Time
}

// NewDeadlineDigest creates the digest task
func NewDeadlineDigest(requests RequestSource, contracts ContractSource, recipients RecipientSource, sender email.Sender, lookaheadDays int, appURL string) *DeadlineDigest {
	if lookaheadDays <= 0 {
		lookaheadDays = 7
	}
	return &DeadlineDigest{
		requests:   requests,
		contracts:  contracts,
		recipients: recipients,
		sender:     sender,
		lookahead:  lookaheadDays,
		appURL:     strings.TrimRight(appURL, "/"),
		now:        time.Now,
	}
}

// Build collects the digest content as of now
func (d *DeadlineDigest) Build(ctx context.Context) (email.Digest, error) {
	now := d.now()
	today := models.NewDate(now)
	until := models.NewDate(today.AddDate(0, 0, d.lookahead))

	requests, err := d.requests.ListOpenDueBetween(ctx, today, until)
	if err != nil {
		return email.Digest{}, fmt.Errorf("failed to list review requests: %w", err)
	}
	service.SortByDeadline(requests)

	contracts, err := d.contracts.List(ctx, repository.ContractFilter{Sort: "expiry_date"})
	if err != nil {
		return email.Digest{}, fmt.Errorf("failed to list contracts: %w", err)
	}

	digest := email.Digest{Lookahead: d.lookahead, AppURL: d.appURL}
	for _, r := range requests {
		item := email.DigestItem{
			Title:         r.ContractTitle,
			Partner:       r.PartnerName,
			Kind:          r.Status.Label(),
			DueDate:       r.RequestDeadline.String(),
			DaysRemaining: r.RequestDeadline.DaysUntil(now),
		}
		if d.appURL != "" {
			item.Link = d.appURL + "/review-requests/" + r.ID
		}
		digest.Requests = append(digest.Requests, item)
	}
	for _, dl := range service.Deadlines(contracts, now, d.lookahead) {
		item := email.DigestItem{
			Title:         dl.ContractTitle,
			Partner:       dl.PartnerName,
			Kind:          dl.Type.Label(),
			DueDate:       dl.DueDate.String(),
			DaysRemaining: dl.DaysRemaining,
		}
		if d.appURL != "" {
			item.Link = d.appURL + "/contracts/" + dl.ContractID
		}
		digest.Contracts = append(digest.Contracts, item)
	}
	return digest, nil
}

// Run builds and sends the digest. Nothing is sent when there is nothing due.
func (d *DeadlineDigest) Run(ctx context.Context) error {
	if d.sender == nil || !d.sender.Enabled() {
		slog.Info("Email service not configured, skipping deadline digest")
		return nil
	}

	digest, err := d.Build(ctx)
	if err != nil {
		return err
	}
	if len(digest.Requests) == 0 && len(digest.Contracts) == 0 {
		slog.Info("No upcoming deadlines, skipping digest")
		return nil
	}

	profiles, err := d.recipients.ListAdminLike(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipients: %w", err)
	}
	var to []string
	for _, p := range profiles {
		if p.Email != "" {
			to = append(to, p.Email)
		}
	}
	if len(to) == 0 {
		slog.Warn("No digest recipients with an e-mail address")
		return nil
	}

	msg, err := email.DigestMessage(to, digest)
	if err != nil {
		return err
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		return err
	}

	slog.Info("Deadline digest sent",
		"recipients", len(to),
		"requests", len(digest.Requests),
		"contracts", len(digest.Contracts))
	return nil
}
