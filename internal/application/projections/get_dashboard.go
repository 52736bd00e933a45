package projections

import (
	"context"
	"time"

	feestore "gymdesk/internal/adapters/storage/fee"
	domainFee "gymdesk/internal/domain/fee"
)

// GetDashboardQuery carries query parameters.
type GetDashboardQuery struct {
	Now time.Time
}

// GetDashboardResult carries the headline counts for the landing page.
type GetDashboardResult struct {
	TotalMembers int
	TotalPlans   int
	FeesDue      int
	FeesOverdue  int
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	MemberStore   MemberStore
	DietPlanStore DietPlanStore
	FeeStore      FeeStore
}

// QueryGetDashboard computes the dashboard counters.
// PRE: Valid query parameters
// POST: Returns totals; overdue is a subset of the due count
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := GetDashboardResult{}

	var err error
	if result.TotalMembers, err = deps.MemberStore.Count(ctx); err != nil {
		return GetDashboardResult{}, err
	}
	if result.TotalPlans, err = deps.DietPlanStore.Count(ctx); err != nil {
		return GetDashboardResult{}, err
	}

	dues, err := deps.FeeStore.List(ctx, feestore.ListFilter{Status: domainFee.StatusDue})
	if err != nil {
		return GetDashboardResult{}, err
	}
	result.FeesDue = len(dues)
	for _, f := range dues {
		if f.IsOverdue(now) {
			result.FeesOverdue++
		}
	}

	return result, nil
}
