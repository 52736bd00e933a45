package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/fee"
	"gymdesk/internal/domain/member"
)

// FeeStoreForRecord defines the store interface needed by RecordFee.
type FeeStoreForRecord interface {
	Save(ctx context.Context, f fee.Fee) error
}

// MemberStoreForFee defines the member lookups needed by RecordFee.
type MemberStoreForFee interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (member.Member, error)
}

// ErrUnknownMember reports a member selection that matches no record.
var ErrUnknownMember = errors.New("member not found")

// RecordFeeInput carries input for the record-fee orchestrator. The
// member is selected by ID or by the admission number staff type in.
type RecordFeeInput struct {
	MemberID        string
	AdmissionNumber string
	AmountPaid      float64
	PaymentDate     time.Time
	DueDate         time.Time
	Status          string
	CreatedBy       string
}

// RecordFeeResult carries the created fee record.
type RecordFeeResult struct {
	FeeID string
}

// RecordFeeDeps holds dependencies for RecordFee.
type RecordFeeDeps struct {
	FeeStore    FeeStoreForRecord
	MemberStore MemberStoreForFee
}

// ExecuteRecordFee records a fee payment or an outstanding due against
// an existing member.
// PRE: input names an existing member by ID or admission number
// POST: Fee persisted, or an error and no write
func ExecuteRecordFee(ctx context.Context, input RecordFeeInput, deps RecordFeeDeps) (RecordFeeResult, error) {
	m, err := resolveMember(ctx, deps.MemberStore, input.MemberID, input.AdmissionNumber)
	if err != nil {
		return RecordFeeResult{}, err
	}

	f := fee.Fee{
		ID:          uuid.NewString(),
		MemberID:    m.ID,
		AmountPaid:  input.AmountPaid,
		PaymentDate: input.PaymentDate,
		DueDate:     input.DueDate,
		Status:      input.Status,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   time.Now(),
	}
	if err := f.Validate(); err != nil {
		return RecordFeeResult{}, err
	}

	if err := deps.FeeStore.Save(ctx, f); err != nil {
		return RecordFeeResult{}, fmt.Errorf("save fee: %w", err)
	}

	slog.Info("fee_recorded", "fee_id", f.ID, "member_id", f.MemberID, "amount", f.AmountPaid, "status", f.Status)

	return RecordFeeResult{FeeID: f.ID}, nil
}

// resolveMember finds the member a fee targets, preferring the ID when
// both are given. A not-found lookup maps to ErrUnknownMember; any
// other store failure is surfaced as-is.
func resolveMember(ctx context.Context, store MemberStoreForFee, id, admissionNumber string) (member.Member, error) {
	var m member.Member
	var err error
	switch {
	case id != "":
		m, err = store.GetByID(ctx, id)
	case admissionNumber != "":
		m, err = store.GetByAdmissionNumber(ctx, admissionNumber)
	default:
		return member.Member{}, ErrUnknownMember
	}
	if errors.Is(err, sql.ErrNoRows) {
		return member.Member{}, ErrUnknownMember
	}
	if err != nil {
		return member.Member{}, fmt.Errorf("member lookup: %w", err)
	}
	return m, nil
}
