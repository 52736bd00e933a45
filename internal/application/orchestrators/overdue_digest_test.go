package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gymdesk/internal/adapters/email"
	feestore "gymdesk/internal/adapters/storage/fee"
	domainfee "gymdesk/internal/domain/fee"
)

// mockFeeStore implements the full fee store interface over a slice.
type mockFeeStore struct {
	fees []domainfee.Fee
}

func (m *mockFeeStore) GetByID(_ context.Context, id string) (domainfee.Fee, error) {
	for _, f := range m.fees {
		if f.ID == id {
			return f, nil
		}
	}
	return domainfee.Fee{}, fmt.Errorf("fee not found")
}

func (m *mockFeeStore) Save(_ context.Context, f domainfee.Fee) error {
	m.fees = append(m.fees, f)
	return nil
}

func (m *mockFeeStore) Delete(_ context.Context, id string) error { return nil }

func (m *mockFeeStore) List(_ context.Context, filter feestore.ListFilter) ([]domainfee.Fee, error) {
	var out []domainfee.Fee
	for _, f := range m.fees {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *mockFeeStore) Count(_ context.Context, filter feestore.ListFilter) (int, error) {
	list, _ := m.List(context.Background(), filter)
	return len(list), nil
}

// mockSender captures sent emails.
type mockSender struct {
	sent []email.SendRequest
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "mock-1", SentAt: time.Now()}, nil
}

func TestExecuteOverdueDigest_SendsOnlyOverdue(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	fees := &mockFeeStore{fees: []domainfee.Fee{
		{ID: "f-overdue", MemberID: "m-1", AmountPaid: 1000, Status: domainfee.StatusDue, DueDate: now.AddDate(0, 0, -5)},
		{ID: "f-future", MemberID: "m-1", AmountPaid: 1000, Status: domainfee.StatusDue, DueDate: now.AddDate(0, 0, 5)},
		{ID: "f-paid", MemberID: "m-1", AmountPaid: 1000, Status: domainfee.StatusPaid, DueDate: now.AddDate(0, 0, -5)},
	}}
	members := newMockMemberStore(existingMember())
	sender := &mockSender{}

	result, err := ExecuteOverdueDigest(context.Background(), OverdueDigestInput{
		Recipient: "owner@example.com",
		Now:       now,
	}, OverdueDigestDeps{FeeStore: fees, MemberStore: members, Sender: sender})
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if result.OverdueCount != 1 {
		t.Errorf("overdue count = %d, want 1", result.OverdueCount)
	}
	if !result.Sent || len(sender.sent) != 1 {
		t.Fatalf("sent = %v (%d emails), want exactly one email", result.Sent, len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].HTML, "Ravi Kumar") {
		t.Errorf("digest body should name the member: %s", sender.sent[0].HTML)
	}
}

func TestExecuteOverdueDigest_NothingOverdue(t *testing.T) {
	now := time.Now()
	fees := &mockFeeStore{fees: []domainfee.Fee{
		{ID: "f-future", MemberID: "m-1", AmountPaid: 1000, Status: domainfee.StatusDue, DueDate: now.AddDate(0, 1, 0)},
	}}
	members := newMockMemberStore(existingMember())
	sender := &mockSender{}

	result, err := ExecuteOverdueDigest(context.Background(), OverdueDigestInput{
		Recipient: "owner@example.com",
		Now:       now,
	}, OverdueDigestDeps{FeeStore: fees, MemberStore: members, Sender: sender})
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if result.Sent || len(sender.sent) != 0 {
		t.Error("no email expected when nothing is overdue")
	}
}
