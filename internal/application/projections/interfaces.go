package projections

import (
	"context"

	dietplanstore "gymdesk/internal/adapters/storage/dietplan"
	feestore "gymdesk/internal/adapters/storage/fee"
	memberstore "gymdesk/internal/adapters/storage/member"
	userstore "gymdesk/internal/adapters/storage/user"
	domainDietPlan "gymdesk/internal/domain/dietplan"
	domainFee "gymdesk/internal/domain/fee"
	domainMember "gymdesk/internal/domain/member"
	domainUser "gymdesk/internal/domain/user"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	List(ctx context.Context, filter memberstore.ListFilter) ([]domainMember.Member, error)
	Count(ctx context.Context) (int, error)
}

// FeeStore interface for fee queries.
type FeeStore interface {
	List(ctx context.Context, filter feestore.ListFilter) ([]domainFee.Fee, error)
	Count(ctx context.Context, filter feestore.ListFilter) (int, error)
}

// DietPlanStore interface for diet plan queries.
type DietPlanStore interface {
	GetByID(ctx context.Context, id string) (domainDietPlan.Plan, error)
	List(ctx context.Context, filter dietplanstore.ListFilter) ([]domainDietPlan.Plan, error)
	Count(ctx context.Context) (int, error)
}

// UserStore interface for account queries.
type UserStore interface {
	List(ctx context.Context, filter userstore.ListFilter) ([]domainUser.User, error)
	Count(ctx context.Context) (int, error)
}
