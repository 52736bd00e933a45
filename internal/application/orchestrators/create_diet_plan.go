package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/dietplan"
	"gymdesk/internal/domain/member"
)

// DietPlanStoreForCreate defines the store interface needed by CreateDietPlan.
type DietPlanStoreForCreate interface {
	Save(ctx context.Context, p dietplan.Plan) error
}

// MemberStoreForDietPlan defines the member lookup needed by CreateDietPlan.
type MemberStoreForDietPlan interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// MealInput is one meal row on a new diet plan.
type MealInput struct {
	TimeSlot string
	Name     string
	Category string
	Quantity string
}

// CreateDietPlanInput carries input for the create-diet-plan orchestrator.
type CreateDietPlanInput struct {
	MemberID  string
	Date      time.Time
	Meals     []MealInput
	CreatedBy string
}

// CreateDietPlanResult carries the created plan.
type CreateDietPlanResult struct {
	PlanID    string
	MealCount int
}

// CreateDietPlanDeps holds dependencies for CreateDietPlan.
type CreateDietPlanDeps struct {
	DietPlanStore DietPlanStoreForCreate
	MemberStore   MemberStoreForDietPlan
}

// ExecuteCreateDietPlan creates a diet plan with its meals for a member.
// The store persists the plan and all meals atomically.
// PRE: input.MemberID identifies an existing member; at least one meal given
// POST: Plan and meals persisted together, or nothing is
func ExecuteCreateDietPlan(ctx context.Context, input CreateDietPlanInput, deps CreateDietPlanDeps) (CreateDietPlanResult, error) {
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CreateDietPlanResult{}, ErrUnknownMember
		}
		return CreateDietPlanResult{}, fmt.Errorf("member lookup: %w", err)
	}

	plan := dietplan.Plan{
		ID:        uuid.NewString(),
		MemberID:  input.MemberID,
		Date:      input.Date,
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now(),
	}
	for _, m := range input.Meals {
		plan.Meals = append(plan.Meals, dietplan.Meal{
			ID:       uuid.NewString(),
			PlanID:   plan.ID,
			TimeSlot: m.TimeSlot,
			Name:     m.Name,
			Category: m.Category,
			Quantity: m.Quantity,
		})
	}

	if err := plan.Validate(); err != nil {
		return CreateDietPlanResult{}, err
	}

	if err := deps.DietPlanStore.Save(ctx, plan); err != nil {
		return CreateDietPlanResult{}, fmt.Errorf("save diet plan: %w", err)
	}

	slog.Info("diet_plan_created", "plan_id", plan.ID, "member_id", plan.MemberID, "meals", len(plan.Meals))

	return CreateDietPlanResult{PlanID: plan.ID, MealCount: len(plan.Meals)}, nil
}
