package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/dietplan"
)

// mockPlanSaver records saved diet plans.
type mockPlanSaver struct {
	saved   []dietplan.Plan
	saveErr error
}

func (m *mockPlanSaver) Save(_ context.Context, p dietplan.Plan) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, p)
	return nil
}

func validPlanInput() CreateDietPlanInput {
	return CreateDietPlanInput{
		MemberID: "m-1",
		Date:     time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Meals: []MealInput{
			{TimeSlot: dietplan.SlotMorning, Name: "Oats", Category: "Carbs", Quantity: "1 bowl"},
			{TimeSlot: dietplan.SlotEvening, Name: "Grilled chicken", Category: "Protein", Quantity: "200g"},
		},
		CreatedBy: "u-trainer",
	}
}

func TestExecuteCreateDietPlan_Success(t *testing.T) {
	members := newMockMemberStore(existingMember())
	plans := &mockPlanSaver{}

	result, err := ExecuteCreateDietPlan(context.Background(), validPlanInput(), CreateDietPlanDeps{
		DietPlanStore: plans,
		MemberStore:   members,
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if result.MealCount != 2 {
		t.Errorf("meal count = %d, want 2", result.MealCount)
	}
	if len(plans.saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(plans.saved))
	}

	saved := plans.saved[0]
	for _, meal := range saved.Meals {
		if meal.PlanID != saved.ID {
			t.Errorf("meal %q not linked to plan: plan_id = %q", meal.Name, meal.PlanID)
		}
		if meal.ID == "" {
			t.Errorf("meal %q has no generated ID", meal.Name)
		}
	}
}

func TestExecuteCreateDietPlan_NoMeals(t *testing.T) {
	members := newMockMemberStore(existingMember())
	plans := &mockPlanSaver{}

	input := validPlanInput()
	input.Meals = nil
	_, err := ExecuteCreateDietPlan(context.Background(), input, CreateDietPlanDeps{
		DietPlanStore: plans,
		MemberStore:   members,
	})
	if !errors.Is(err, dietplan.ErrNoMeals) {
		t.Errorf("error = %v, want ErrNoMeals", err)
	}
	if len(plans.saved) != 0 {
		t.Error("no plan should be saved without meals")
	}
}

func TestExecuteCreateDietPlan_UnknownMember(t *testing.T) {
	members := newMockMemberStore()
	plans := &mockPlanSaver{}

	_, err := ExecuteCreateDietPlan(context.Background(), validPlanInput(), CreateDietPlanDeps{
		DietPlanStore: plans,
		MemberStore:   members,
	})
	if !errors.Is(err, ErrUnknownMember) {
		t.Errorf("error = %v, want ErrUnknownMember", err)
	}
}

func TestExecuteCreateDietPlan_BadTimeSlot(t *testing.T) {
	members := newMockMemberStore(existingMember())
	plans := &mockPlanSaver{}

	input := validPlanInput()
	input.Meals[0].TimeSlot = "brunch"
	_, err := ExecuteCreateDietPlan(context.Background(), input, CreateDietPlanDeps{
		DietPlanStore: plans,
		MemberStore:   members,
	})
	if err == nil {
		t.Fatal("expected a validation error for an unknown time slot")
	}
}
