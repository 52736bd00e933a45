package projections

import (
	"context"
	"fmt"
	"testing"
	"time"

	dietplanstore "gymdesk/internal/adapters/storage/dietplan"
	domainDietPlan "gymdesk/internal/domain/dietplan"
	domainFee "gymdesk/internal/domain/fee"
	domainMember "gymdesk/internal/domain/member"
)

// mockPlans is a slice-backed DietPlanStore for projection tests.
type mockPlans struct {
	plans []domainDietPlan.Plan
}

func (m *mockPlans) GetByID(_ context.Context, id string) (domainDietPlan.Plan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return domainDietPlan.Plan{}, fmt.Errorf("diet plan not found")
}

func (m *mockPlans) List(_ context.Context, filter dietplanstore.ListFilter) ([]domainDietPlan.Plan, error) {
	var out []domainDietPlan.Plan
	for _, p := range m.plans {
		if filter.MemberID != "" && p.MemberID != filter.MemberID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPlans) Count(_ context.Context) (int, error) {
	return len(m.plans), nil
}

func TestQueryGetDashboard(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	members := &mockMembers{members: map[string]domainMember.Member{
		"m-1": {ID: "m-1", Name: "Ravi Kumar"},
		"m-2": {ID: "m-2", Name: "Anita Sharma"},
	}}
	plans := &mockPlans{plans: []domainDietPlan.Plan{
		{ID: "p-1", MemberID: "m-1"},
	}}
	fees := &mockFees{fees: []domainFee.Fee{
		{ID: "f-1", MemberID: "m-1", Status: domainFee.StatusPaid, DueDate: now.AddDate(0, 1, 0)},
		{ID: "f-2", MemberID: "m-2", Status: domainFee.StatusDue, DueDate: now.AddDate(0, 0, 5)},
		{ID: "f-3", MemberID: "m-2", Status: domainFee.StatusDue, DueDate: now.AddDate(0, 0, -5)},
	}}

	result, err := QueryGetDashboard(context.Background(), GetDashboardQuery{Now: now}, GetDashboardDeps{
		MemberStore:   members,
		DietPlanStore: plans,
		FeeStore:      fees,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if result.TotalMembers != 2 {
		t.Errorf("members = %d, want 2", result.TotalMembers)
	}
	if result.TotalPlans != 1 {
		t.Errorf("plans = %d, want 1", result.TotalPlans)
	}
	if result.FeesDue != 2 {
		t.Errorf("due = %d, want 2", result.FeesDue)
	}
	if result.FeesOverdue != 1 {
		t.Errorf("overdue = %d, want 1", result.FeesOverdue)
	}
}

func TestQueryGetDietPlans_ResolvesMembers(t *testing.T) {
	members := &mockMembers{members: map[string]domainMember.Member{
		"m-1": {ID: "m-1", Name: "Ravi Kumar", AdmissionNumber: "2026123"},
	}}
	plans := &mockPlans{plans: []domainDietPlan.Plan{
		{ID: "p-1", MemberID: "m-1", Meals: []domainDietPlan.Meal{
			{ID: "meal-1", PlanID: "p-1", TimeSlot: domainDietPlan.SlotMorning, Name: "Oats", Category: "Carbs", Quantity: "1 bowl"},
		}},
		{ID: "p-2", MemberID: "m-gone"},
	}}

	result, err := QueryGetDietPlans(context.Background(), GetDietPlansQuery{}, GetDietPlansDeps{
		DietPlanStore: plans,
		MemberStore:   members,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Plans) != 2 {
		t.Fatalf("plans = %d, want 2", len(result.Plans))
	}

	byID := make(map[string]PlanWithMember)
	for _, p := range result.Plans {
		byID[p.Plan.ID] = p
	}
	if byID["p-1"].MemberName != "Ravi Kumar" {
		t.Errorf("member name = %q, want Ravi Kumar", byID["p-1"].MemberName)
	}
	if len(byID["p-1"].Plan.Meals) != 1 {
		t.Errorf("meals = %d, want 1", len(byID["p-1"].Plan.Meals))
	}
	// A plan whose member was deleted still lists, with blank details.
	if byID["p-2"].MemberName != "" {
		t.Errorf("orphan plan member name = %q, want empty", byID["p-2"].MemberName)
	}
}
