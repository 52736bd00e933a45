package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/member"
)

// MemberStoreForRegister defines the store interface needed by RegisterMember.
type MemberStoreForRegister interface {
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// RegisterMemberInput carries input for the register-member orchestrator.
type RegisterMemberInput struct {
	Name      string
	Phone     string
	Address   string
	GymPlan   string
	CreatedBy string
}

// RegisterMemberResult carries the created member.
type RegisterMemberResult struct {
	MemberID        string
	AdmissionNumber string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStoreForRegister
	Now         func() time.Time
}

// admissionAttempts bounds the re-roll loop on admission number collisions.
const admissionAttempts = 10

// ExecuteRegisterMember enrolls a new gym member with a generated
// admission number of the form <year><3 digits>, e.g. "2026417".
// PRE: input fields satisfy member validation rules
// POST: Member persisted with a unique admission number
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (RegisterMemberResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	m := member.Member{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		GymPlan:   input.GymPlan,
		CreatedBy: input.CreatedBy,
		CreatedAt: now(),
	}

	admission, err := generateAdmissionNumber(ctx, deps.MemberStore, now())
	if err != nil {
		return RegisterMemberResult{}, err
	}
	m.AdmissionNumber = admission

	if err := m.Validate(); err != nil {
		return RegisterMemberResult{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return RegisterMemberResult{}, fmt.Errorf("save member: %w", err)
	}

	slog.Info("member_registered", "member_id", m.ID, "admission_number", m.AdmissionNumber, "plan", m.GymPlan)

	return RegisterMemberResult{
		MemberID:        m.ID,
		AdmissionNumber: m.AdmissionNumber,
	}, nil
}

// generateAdmissionNumber rolls year-prefixed candidates until one is
// unused. Only a not-found lookup means the number is free; a failing
// lookup aborts the registration.
func generateAdmissionNumber(ctx context.Context, store MemberStoreForRegister, now time.Time) (string, error) {
	year := now.Year()
	for i := 0; i < admissionAttempts; i++ {
		candidate := fmt.Sprintf("%d%03d", year, 100+rand.Intn(900))
		_, err := store.GetByAdmissionNumber(ctx, candidate)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("admission number check: %w", err)
		}
	}
	return "", fmt.Errorf("could not allocate a free admission number after %d attempts", admissionAttempts)
}
