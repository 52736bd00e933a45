package dietplan

import (
	"errors"
	"strings"
	"time"
)

// Meal time slot constants
const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
	SlotNight     = "night"
)

// ValidSlots contains all valid meal time slots.
var ValidSlots = []string{SlotMorning, SlotAfternoon, SlotEvening, SlotNight}

// Domain errors
var (
	ErrEmptyMember   = errors.New("diet plan must reference a member")
	ErrNoMeals       = errors.New("diet plan must contain at least one meal")
	ErrInvalidSlot   = errors.New("time slot must be morning, afternoon, evening or night")
	ErrEmptyMealName = errors.New("meal name cannot be empty")
	ErrEmptyQuantity = errors.New("meal quantity cannot be empty")
	ErrEmptyCategory = errors.New("meal category cannot be empty")
)

// Plan is a dated diet plan for one member, composed of meals.
type Plan struct {
	ID        string
	MemberID  string
	Date      time.Time
	CreatedBy string
	CreatedAt time.Time
	Meals     []Meal
}

// Meal is one entry of a diet plan.
type Meal struct {
	ID       string
	PlanID   string
	TimeSlot string
	Name     string
	Category string
	Quantity string
}

// Validate checks if the Meal has valid data.
// PRE: Meal struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Meal) Validate() error {
	if !isValidSlot(m.TimeSlot) {
		return ErrInvalidSlot
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyMealName
	}
	if strings.TrimSpace(m.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(m.Quantity) == "" {
		return ErrEmptyQuantity
	}
	return nil
}

// Validate checks the plan and every meal in it.
// PRE: Plan struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: A valid plan has a member and at least one valid meal
func (p *Plan) Validate() error {
	if p.MemberID == "" {
		return ErrEmptyMember
	}
	if len(p.Meals) == 0 {
		return ErrNoMeals
	}
	for i := range p.Meals {
		if err := p.Meals[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func isValidSlot(slot string) bool {
	for _, s := range ValidSlots {
		if s == slot {
			return true
		}
	}
	return false
}
