package projections

import (
	"context"

	memberstore "gymdesk/internal/adapters/storage/member"
	domainMember "gymdesk/internal/domain/member"
)

// GetMemberListQuery carries query parameters.
type GetMemberListQuery struct {
	Search string
	Limit  int
	Offset int
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Members []domainMember.Member
	Total   int
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	MemberStore MemberStore
}

// QueryGetMemberList retrieves members, optionally filtered by a search
// string matching name or admission number.
// PRE: Valid query parameters
// POST: Returns matching members newest first, plus the unfiltered total
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	members, err := deps.MemberStore.List(ctx, memberstore.ListFilter{
		Search: query.Search,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return GetMemberListResult{}, err
	}

	total, err := deps.MemberStore.Count(ctx)
	if err != nil {
		return GetMemberListResult{}, err
	}

	return GetMemberListResult{Members: members, Total: total}, nil
}
