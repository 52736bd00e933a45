package projections

import (
	"context"

	dietplanstore "gymdesk/internal/adapters/storage/dietplan"
	domainDietPlan "gymdesk/internal/domain/dietplan"
)

// GetDietPlansQuery carries query parameters.
type GetDietPlansQuery struct {
	MemberID string // optional: restrict to one member
	Limit    int
	Offset   int
}

// PlanWithMember is a diet plan joined with its member for display.
type PlanWithMember struct {
	Plan            domainDietPlan.Plan
	MemberName      string
	AdmissionNumber string
}

// GetDietPlansResult carries the query result.
type GetDietPlansResult struct {
	Plans []PlanWithMember
}

// GetDietPlansDeps holds dependencies for GetDietPlans.
type GetDietPlansDeps struct {
	DietPlanStore DietPlanStore
	MemberStore   MemberStore
}

// QueryGetDietPlans retrieves diet plans with their meals and member
// details, newest plan date first.
// PRE: Valid query parameters
// POST: Returns plans with meals loaded and member names resolved
func QueryGetDietPlans(ctx context.Context, query GetDietPlansQuery, deps GetDietPlansDeps) (GetDietPlansResult, error) {
	plans, err := deps.DietPlanStore.List(ctx, dietplanstore.ListFilter{
		MemberID: query.MemberID,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return GetDietPlansResult{}, err
	}

	result := GetDietPlansResult{}
	for _, p := range plans {
		row := PlanWithMember{Plan: p}
		if m, err := deps.MemberStore.GetByID(ctx, p.MemberID); err == nil {
			row.MemberName = m.Name
			row.AdmissionNumber = m.AdmissionNumber
		}
		result.Plans = append(result.Plans, row)
	}
	return result, nil
}
