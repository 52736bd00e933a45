package dietplan

import (
	"context"

	domain "gymdesk/internal/domain/dietplan"
)

// Store persists diet Plan state. Plans and their meals are saved
// and loaded as a unit.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	Save(ctx context.Context, value domain.Plan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Plan, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	MemberID string
	Limit    int
	Offset   int
}
