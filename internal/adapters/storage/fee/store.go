package fee

import (
	"context"

	domain "gymdesk/internal/domain/fee"
)

// Store persists Fee state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Fee, error)
	Save(ctx context.Context, value domain.Fee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Fee, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Status   string
	MemberID string
	Limit    int
	Offset   int
}
