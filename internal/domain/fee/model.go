package fee

import (
	"errors"
	"time"
)

// Fee status constants
const (
	StatusPaid = "Paid"
	StatusDue  = "Due"
)

// Domain errors
var (
	ErrEmptyMember    = errors.New("fee must reference a member")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrInvalidStatus  = errors.New("status must be 'Paid' or 'Due'")
	ErrMissingDueDate = errors.New("due date is required")
)

// Fee holds state for a single fee record against a member.
type Fee struct {
	ID          string
	MemberID    string
	AmountPaid  float64
	PaymentDate time.Time
	DueDate     time.Time
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
}

// Validate checks if the Fee has valid data.
// PRE: Fee struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (f *Fee) Validate() error {
	if f.MemberID == "" {
		return ErrEmptyMember
	}
	if f.AmountPaid <= 0 {
		return ErrInvalidAmount
	}
	if f.Status != StatusPaid && f.Status != StatusDue {
		return ErrInvalidStatus
	}
	if f.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	return nil
}

// IsOverdue returns true if the fee is still due and its due date has
// passed.
// INVARIANT: Fee fields are not mutated
func (f *Fee) IsOverdue(now time.Time) bool {
	return f.Status == StatusDue && f.DueDate.Before(now)
}

// IsPaid returns true if the fee has been settled.
// INVARIANT: Fee fields are not mutated
func (f *Fee) IsPaid() bool {
	return f.Status == StatusPaid
}
