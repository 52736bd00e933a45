package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/adapters/email"
	feestore "gymdesk/internal/adapters/storage/fee"
	domainfee "gymdesk/internal/domain/fee"
	"gymdesk/internal/domain/member"
)

// MemberStoreForDigest defines the member lookup needed by OverdueDigest.
type MemberStoreForDigest interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// OverdueDigestInput carries input for the overdue-digest orchestrator.
type OverdueDigestInput struct {
	Recipient string
	Now       time.Time
}

// OverdueDigestResult reports what the digest covered.
type OverdueDigestResult struct {
	OverdueCount int
	Sent         bool
}

// OverdueDigestDeps holds dependencies for OverdueDigest.
type OverdueDigestDeps struct {
	FeeStore    feestore.Store
	MemberStore MemberStoreForDigest
	Sender      email.Sender
}

// ExecuteOverdueDigest emails the recipient a summary of all fees that
// are due and past their due date. No email is sent when nothing is
// overdue.
// PRE: deps are wired; input.Recipient is a valid address
// POST: At most one email sent; returns the overdue count either way
func ExecuteOverdueDigest(ctx context.Context, input OverdueDigestInput, deps OverdueDigestDeps) (OverdueDigestResult, error) {
	dues, err := deps.FeeStore.List(ctx, feestore.ListFilter{Status: domainfee.StatusDue})
	if err != nil {
		return OverdueDigestResult{}, fmt.Errorf("list due fees: %w", err)
	}

	var overdue []domainfee.Fee
	for _, f := range dues {
		if f.IsOverdue(input.Now) {
			overdue = append(overdue, f)
		}
	}
	if len(overdue) == 0 {
		return OverdueDigestResult{OverdueCount: 0, Sent: false}, nil
	}

	var body strings.Builder
	body.WriteString("<h2>Overdue fee payments</h2><ul>")
	for _, f := range overdue {
		name := f.MemberID
		if m, err := deps.MemberStore.GetByID(ctx, f.MemberID); err == nil {
			name = fmt.Sprintf("%s (#%s)", m.Name, m.AdmissionNumber)
		}
		body.WriteString(fmt.Sprintf("<li>%s — due %s</li>", name, f.DueDate.Format("2 Jan 2006")))
	}
	body.WriteString("</ul>")

	_, err = deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.Recipient},
		Subject: fmt.Sprintf("%d overdue fee payment(s)", len(overdue)),
		HTML:    body.String(),
	})
	if err != nil {
		return OverdueDigestResult{OverdueCount: len(overdue)}, err
	}

	slog.Info("overdue_digest_sent", "recipient", input.Recipient, "overdue", len(overdue))
	return OverdueDigestResult{OverdueCount: len(overdue), Sent: true}, nil
}

// StartDigestWorker runs the overdue digest once per interval until the
// context is cancelled. Errors are logged, not fatal.
func StartDigestWorker(ctx context.Context, recipient string, interval time.Duration, deps OverdueDigestDeps) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, err := ExecuteOverdueDigest(ctx, OverdueDigestInput{
					Recipient: recipient,
					Now:       time.Now(),
				}, deps)
				if err != nil {
					slog.Error("overdue_digest_failed", "error", err)
				}
			}
		}
	}()
}
