package investrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chama-works/investments-api/internal/adapters/postgres"
	"github.com/chama-works/investments-api/internal/adapters/procwire"
	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

// Repo is a Postgres implementation of investrepo.Repository. Each method is one call to a
// stored function, which runs in its own implicit transaction.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) CreateGroupInvestment(ctx context.Context, p investrepo.CreateGroupInvestmentParams) (domain.GroupInvestmentCreated, error) {
	var out procwire.GroupInvestmentCreated
	if err := r.call(ctx, procwire.FnCreateGroupInvestment, procwire.NewCreateGroupInvestmentArgs(p), &out); err != nil {
		return domain.GroupInvestmentCreated{}, err
	}
	return out.Domain(), nil
}

func (r *Repo) CreateInvestment(ctx context.Context, p investrepo.CreateInvestmentParams) (domain.InvestmentCreated, error) {
	var out procwire.InvestmentCreated
	if err := r.call(ctx, procwire.FnCreateInvestment, procwire.NewCreateInvestmentArgs(p), &out); err != nil {
		return domain.InvestmentCreated{}, err
	}
	return out.Domain(), nil
}

func (r *Repo) AddGroupMembers(ctx context.Context, p investrepo.AddGroupMembersParams) (domain.AddMembersSummary, error) {
	var out procwire.AddMembersSummary
	if err := r.call(ctx, procwire.FnAddGroupMembers, procwire.NewAddGroupMembersArgs(p), &out); err != nil {
		return domain.AddMembersSummary{}, err
	}
	return out.Domain(), nil
}

func (r *Repo) ListGroupMembers(ctx context.Context, p investrepo.ListGroupMembersParams) ([]domain.GroupMember, error) {
	var out []procwire.MemberRow
	if err := r.call(ctx, procwire.FnListGroupMembers, procwire.NewListGroupMembersArgs(p), &out); err != nil {
		return nil, err
	}
	return procwire.MembersDomain(out), nil
}

func (r *Repo) UpdateGroupMembers(ctx context.Context, p investrepo.UpdateGroupMembersParams) (domain.UpdateMembersSummary, error) {
	var out procwire.UpdateMembersSummary
	if err := r.call(ctx, procwire.FnUpdateGroupMembers, procwire.NewUpdateGroupMembersArgs(p), &out); err != nil {
		return domain.UpdateMembersSummary{}, err
	}
	return out.Domain(), nil
}

func (r *Repo) call(ctx context.Context, fn string, args any, out any) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode %s args: %w", fn, err)
	}

	var raw []byte
	// fn is one of the procwire constants, never caller input.
	if err := r.pool.QueryRow(ctx, "SELECT "+fn+"($1::jsonb)", string(payload)).Scan(&raw); err != nil {
		return mapError(err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s result: %w", fn, err)
	}
	return nil
}

// mapError turns server-reported errors into *RemoteError and everything else into a
// transport failure.
func mapError(err error) error {
	pe, ok := postgres.AsPgError(err)
	if !ok {
		return investrepo.TransportError(err)
	}
	return procwire.ServerError{
		SQLState:   pe.Code,
		Message:    pe.Message,
		Detail:     pe.Detail,
		Hint:       pe.Hint,
		Constraint: pe.ConstraintName,
	}.Remote()
}
