package member

import (
	"context"

	domain "gymdesk/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Search matches against member name and admission number.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}
