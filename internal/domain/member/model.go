package member

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxAddressLength = 200
)

// Gym plan constants
const (
	PlanPT    = "PT"
	PlanNonPT = "Non-PT"
)

// Domain errors
var (
	ErrNameTooShort    = errors.New("member name must be at least 2 characters")
	ErrInvalidPhone    = errors.New("phone number must be at least 10 digits")
	ErrAddressTooShort = errors.New("address must be at least 5 characters")
	ErrInvalidPlan     = errors.New("gym plan must be 'PT' or 'Non-PT'")
)

// Member holds state for a registered gym member. Members are roster
// entries, not login accounts; CreatedBy references the staff user
// that registered them.
type Member struct {
	ID              string
	AdmissionNumber string
	Name            string
	Phone           string
	Address         string
	GymPlan         string
	CreatedBy       string
	CreatedAt       time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Member) Validate() error {
	if len(strings.TrimSpace(m.Name)) < 2 {
		return ErrNameTooShort
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if len(strings.TrimSpace(m.Phone)) < 10 {
		return ErrInvalidPhone
	}
	if len(strings.TrimSpace(m.Address)) < 5 {
		return ErrAddressTooShort
	}
	if len(m.Address) > MaxAddressLength {
		return errors.New("address cannot exceed 200 characters")
	}
	if m.GymPlan != PlanPT && m.GymPlan != PlanNonPT {
		return ErrInvalidPlan
	}
	return nil
}

// IsPersonalTraining returns true for members on the PT plan.
// INVARIANT: Member fields are not mutated
func (m *Member) IsPersonalTraining() bool {
	return m.GymPlan == PlanPT
}
