package fee_test

import (
	"testing"
	"time"

	"gymdesk/internal/domain/fee"
)

// TestFeeValidation tests validation of Fee.
func TestFeeValidation(t *testing.T) {
	due := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		fee     fee.Fee
		wantErr bool
	}{
		{
			name: "valid paid fee",
			fee: fee.Fee{
				ID:         "f1",
				MemberID:   "m1",
				AmountPaid: 1500,
				DueDate:    due,
				Status:     fee.StatusPaid,
			},
			wantErr: false,
		},
		{
			name: "valid due fee",
			fee: fee.Fee{
				ID:         "f2",
				MemberID:   "m1",
				AmountPaid: 1500,
				DueDate:    due,
				Status:     fee.StatusDue,
			},
			wantErr: false,
		},
		{
			name: "missing member",
			fee: fee.Fee{
				AmountPaid: 1500,
				DueDate:    due,
				Status:     fee.StatusPaid,
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			fee: fee.Fee{
				MemberID: "m1",
				DueDate:  due,
				Status:   fee.StatusPaid,
			},
			wantErr: true,
		},
		{
			name: "invalid status",
			fee: fee.Fee{
				MemberID:   "m1",
				AmountPaid: 1500,
				DueDate:    due,
				Status:     "Pending",
			},
			wantErr: true,
		},
		{
			name: "missing due date",
			fee: fee.Fee{
				MemberID:   "m1",
				AmountPaid: 1500,
				Status:     fee.StatusDue,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fee.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Fee.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestIsOverdue tests overdue derivation from status and due date.
func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		due    time.Time
		want   bool
	}{
		{"due and past", fee.StatusDue, now.AddDate(0, 0, -3), true},
		{"due but future", fee.StatusDue, now.AddDate(0, 1, 0), false},
		{"paid and past", fee.StatusPaid, now.AddDate(0, 0, -3), false},
		{"paid and future", fee.StatusPaid, now.AddDate(0, 1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fee.Fee{Status: tt.status, DueDate: tt.due}
			if got := f.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
