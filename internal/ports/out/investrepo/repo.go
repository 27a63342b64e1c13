package investrepo

import (
	"context"

	"github.com/chama-works/investments-api/internal/domain"
)

// CreateGroupInvestmentParams is the single payload of the atomic group creation procedure.
type CreateGroupInvestmentParams struct {
	Creator          domain.UserID
	GroupName        string
	GroupDescription *string
	Type             domain.InvestmentType
	Amount           domain.Amount
	LockedMonths     *int

	UserMembers     []domain.UserMember
	ExternalMembers []domain.ExternalMember
}

type CreateInvestmentParams struct {
	Owner        domain.UserID
	Type         domain.InvestmentType
	Amount       domain.Amount
	LockedMonths *int
}

type AddGroupMembersParams struct {
	Caller          domain.UserID
	GroupID         domain.GroupID
	UserMembers     []domain.UserMember
	ExternalMembers []domain.ExternalMember
}

type ListGroupMembersParams struct {
	Caller  domain.UserID
	GroupID domain.GroupID
}

type UpdateGroupMembersParams struct {
	Caller  domain.UserID
	GroupID domain.GroupID
	Updates []domain.MemberUpdate
}

// Repository is the remote transactional collaborator (stored procedures).
//
// Every method is exactly one outbound call. Implementations must not retry.
// Structured rejections are returned as *RemoteError; network failures wrap ErrTransport.
//
//go:generate mockgen -destination=mocks/mock_repo.go -package=mocks -source=repo.go Repository
type Repository interface {
	// CreateGroupInvestment creates the group, attaches members and opens the investment
	// transactionally. It is all-or-nothing.
	CreateGroupInvestment(ctx context.Context, p CreateGroupInvestmentParams) (domain.GroupInvestmentCreated, error)

	CreateInvestment(ctx context.Context, p CreateInvestmentParams) (domain.InvestmentCreated, error)

	// AddGroupMembers attaches members item by item and reports a tally; it may partially apply.
	AddGroupMembers(ctx context.Context, p AddGroupMembersParams) (domain.AddMembersSummary, error)

	// ListGroupMembers returns the group's members ordered by join time. Only members of the group
	// (or its creator) may list it.
	ListGroupMembers(ctx context.Context, p ListGroupMembersParams) ([]domain.GroupMember, error)

	// UpdateGroupMembers applies member deltas item by item and reports a tally; it may partially apply.
	UpdateGroupMembers(ctx context.Context, p UpdateGroupMembersParams) (domain.UpdateMembersSummary, error)
}
