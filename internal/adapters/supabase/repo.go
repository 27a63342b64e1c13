package supabase

import (
	"context"

	"github.com/chama-works/investments-api/internal/adapters/procwire"
	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

// Repo adapts Client to investrepo.Repository.
type Repo struct {
	client *Client
}

func NewRepo(c *Client) *Repo {
	return &Repo{client: c}
}

func (r *Repo) CreateGroupInvestment(ctx context.Context, p investrepo.CreateGroupInvestmentParams) (domain.GroupInvestmentCreated, error) {
	var out procwire.GroupInvestmentCreated
	if err := r.client.RPC(ctx, procwire.FnCreateGroupInvestment, procwire.NewCreateGroupInvestmentArgs(p), &out); err != nil {
		return domain.GroupInvestmentCreated{}, err
	}
	return out.Domain(), nil
}

func (r *Repo) CreateInvestment(ctx context.Context, p investrepo.CreateInvestmentParams) (domain.InvestmentCreated, error) {
	var out procwire.InvestmentCreated
	if err := r.client.RPC(ctx, procwire.FnCreateInvestment, procwire.NewCreateInvestmentArgs(p), &out); err != nil {
		return domain.InvestmentCreated{}, err
	}
	return out.Domain(), nil
}

func (r *Repo) AddGroupMembers(ctx context.Context, p investrepo.AddGroupMembersParams) (domain.AddMembersSummary, error) {
	var out procwire.AddMembersSummary
	if err := r.client.RPC(ctx, procwire.FnAddGroupMembers, procwire.NewAddGroupMembersArgs(p), &out); err != nil {
		return domain.AddMembersSummary{}, err
	}
	return out.Domain(), nil
}

func (r *Repo) ListGroupMembers(ctx context.Context, p investrepo.ListGroupMembersParams) ([]domain.GroupMember, error) {
	var out []procwire.MemberRow
	if err := r.client.RPC(ctx, procwire.FnListGroupMembers, procwire.NewListGroupMembersArgs(p), &out); err != nil {
		return nil, err
	}
	return procwire.MembersDomain(out), nil
}

func (r *Repo) UpdateGroupMembers(ctx context.Context, p investrepo.UpdateGroupMembersParams) (domain.UpdateMembersSummary, error) {
	var out procwire.UpdateMembersSummary
	if err := r.client.RPC(ctx, procwire.FnUpdateGroupMembers, procwire.NewUpdateGroupMembersArgs(p), &out); err != nil {
		return domain.UpdateMembersSummary{}, err
	}
	return out.Domain(), nil
}
