package projections

import (
	"context"
	"strings"
	"time"

	feestore "gymdesk/internal/adapters/storage/fee"
	domainFee "gymdesk/internal/domain/fee"
)

// Fee list filter values accepted from the UI.
const (
	FeeFilterAll  = "all"
	FeeFilterPaid = "paid"
	FeeFilterDue  = "due"
)

// GetFeeListQuery carries query parameters.
type GetFeeListQuery struct {
	Filter string // all, paid or due; anything else falls back to all
	Search string // matches member name or admission number
	Now    time.Time
	Limit  int
	Offset int
}

// FeeWithMember is a fee row joined with its member for display.
// Overdue is derived, never stored: a fee still marked due whose due
// date has passed.
type FeeWithMember struct {
	Fee             domainFee.Fee
	MemberName      string
	AdmissionNumber string
	Overdue         bool
}

// GetFeeListResult carries the query result.
type GetFeeListResult struct {
	Fees         []FeeWithMember
	TotalPaid    int
	TotalDue     int
	TotalOverdue int
}

// GetFeeListDeps holds dependencies for GetFeeList.
type GetFeeListDeps struct {
	FeeStore    FeeStore
	MemberStore MemberStore
}

// QueryGetFeeList retrieves fee records with member details, filtered
// by payment status and an optional search string.
// PRE: Valid query parameters
// POST: Returns fees most recent due date first with derived overdue flags
func QueryGetFeeList(ctx context.Context, query GetFeeListQuery, deps GetFeeListDeps) (GetFeeListResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	filter := feestore.ListFilter{Limit: query.Limit, Offset: query.Offset}
	switch query.Filter {
	case FeeFilterPaid:
		filter.Status = domainFee.StatusPaid
	case FeeFilterDue:
		filter.Status = domainFee.StatusDue
	}

	fees, err := deps.FeeStore.List(ctx, filter)
	if err != nil {
		return GetFeeListResult{}, err
	}

	result := GetFeeListResult{}
	search := strings.ToLower(strings.TrimSpace(query.Search))
	memberCache := make(map[string]struct{ name, admission string })

	for _, f := range fees {
		entry, ok := memberCache[f.MemberID]
		if !ok {
			if m, err := deps.MemberStore.GetByID(ctx, f.MemberID); err == nil {
				entry = struct{ name, admission string }{m.Name, m.AdmissionNumber}
			}
			memberCache[f.MemberID] = entry
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(entry.name), search) &&
			!strings.Contains(strings.ToLower(entry.admission), search) {
			continue
		}

		result.Fees = append(result.Fees, FeeWithMember{
			Fee:             f,
			MemberName:      entry.name,
			AdmissionNumber: entry.admission,
			Overdue:         f.IsOverdue(now),
		})
	}

	for _, fm := range result.Fees {
		switch {
		case fm.Overdue:
			result.TotalOverdue++
		case fm.Fee.IsPaid():
			result.TotalPaid++
		default:
			result.TotalDue++
		}
	}

	return result, nil
}
