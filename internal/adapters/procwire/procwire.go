// Package procwire holds the JSON argument and result shapes of the investment stored procedures.
// The Postgres adapter passes them as a single jsonb argument; the Supabase adapter posts the
// same document to the PostgREST RPC endpoint.
package procwire

import (
	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

// Stored procedure names.
const (
	FnCreateGroupInvestment = "create_group_investment"
	FnCreateInvestment      = "create_investment"
	FnAddGroupMembers       = "add_group_members"
	FnListGroupMembers      = "list_group_members"
	FnUpdateGroupMembers    = "update_group_members"
)

// Every procedure takes one jsonb parameter with this name.
const ArgName = "p"

type UserMember struct {
	UserID string   `json:"userId"`
	Titles []string `json:"titles"`
}

type ExternalMember struct {
	Name       string   `json:"name"`
	NationalID string   `json:"nationalId"`
	Phone      string   `json:"phone"`
	FrontPhoto string   `json:"frontPhoto"`
	BackPhoto  string   `json:"backPhoto"`
	Titles     []string `json:"titles"`
}

type CreateGroupInvestmentArgs struct {
	Creator          string           `json:"creator"`
	GroupName        string           `json:"groupName"`
	GroupDescription *string          `json:"groupDescription,omitempty"`
	Type             string           `json:"type"`
	Amount           int64            `json:"amount"`
	LockedMonths     *int             `json:"lockedMonths,omitempty"`
	UserMembers      []UserMember     `json:"userMembers"`
	ExternalMembers  []ExternalMember `json:"externalMembers"`
}

type CreateInvestmentArgs struct {
	Owner        string `json:"owner"`
	Type         string `json:"type"`
	Amount       int64  `json:"amount"`
	LockedMonths *int   `json:"lockedMonths,omitempty"`
}

type AddGroupMembersArgs struct {
	Caller          string           `json:"caller"`
	GroupID         string           `json:"groupId"`
	UserMembers     []UserMember     `json:"userMembers"`
	ExternalMembers []ExternalMember `json:"externalMembers"`
}

type ListGroupMembersArgs struct {
	Caller  string `json:"caller"`
	GroupID string `json:"groupId"`
}

// MemberUpdate omits unspecified fields so the procedure can tell "unchanged" from "set".
type MemberUpdate struct {
	MemberID   string    `json:"memberId"`
	Name       *string   `json:"name,omitempty"`
	NationalID *string   `json:"nationalId,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	FrontPhoto *string   `json:"frontPhoto,omitempty"`
	BackPhoto  *string   `json:"backPhoto,omitempty"`
	Titles     *[]string `json:"titles,omitempty"`
}

type UpdateGroupMembersArgs struct {
	Caller  string         `json:"caller"`
	GroupID string         `json:"groupId"`
	Updates []MemberUpdate `json:"updates"`
}

type GroupInvestmentCreated struct {
	GroupID      string `json:"groupId"`
	InvestmentID string `json:"investmentId"`
}

type InvestmentCreated struct {
	InvestmentID string `json:"investmentId"`
}

type AddMembersSummary struct {
	Attempted         int      `json:"attempted"`
	Added             int      `json:"added"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	Errors            int      `json:"errors"`
	SkippedPhones     []string `json:"skipped_phones"`
}

type UpdateMembersSummary struct {
	Attempted int `json:"attempted"`
	Updated   int `json:"updated"`
	NotFound  int `json:"not_found"`
	WrongType int `json:"wrong_type"`
	Errors    int `json:"errors"`
}

type MemberRow struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	UserID     string   `json:"userId"`
	Titles     []string `json:"titles"`
	Name       string   `json:"name"`
	NationalID string   `json:"nationalId"`
	Phone      string   `json:"phone"`
	FrontPhoto string   `json:"frontPhoto"`
	BackPhoto  string   `json:"backPhoto"`
}

func NewCreateGroupInvestmentArgs(p investrepo.CreateGroupInvestmentParams) CreateGroupInvestmentArgs {
	return CreateGroupInvestmentArgs{
		Creator:          string(p.Creator),
		GroupName:        p.GroupName,
		GroupDescription: p.GroupDescription,
		Type:             string(p.Type),
		Amount:           int64(p.Amount),
		LockedMonths:     p.LockedMonths,
		UserMembers:      userMembers(p.UserMembers),
		ExternalMembers:  externalMembers(p.ExternalMembers),
	}
}

func NewCreateInvestmentArgs(p investrepo.CreateInvestmentParams) CreateInvestmentArgs {
	return CreateInvestmentArgs{
		Owner:        string(p.Owner),
		Type:         string(p.Type),
		Amount:       int64(p.Amount),
		LockedMonths: p.LockedMonths,
	}
}

func NewAddGroupMembersArgs(p investrepo.AddGroupMembersParams) AddGroupMembersArgs {
	return AddGroupMembersArgs{
		Caller:          string(p.Caller),
		GroupID:         string(p.GroupID),
		UserMembers:     userMembers(p.UserMembers),
		ExternalMembers: externalMembers(p.ExternalMembers),
	}
}

func NewListGroupMembersArgs(p investrepo.ListGroupMembersParams) ListGroupMembersArgs {
	return ListGroupMembersArgs{Caller: string(p.Caller), GroupID: string(p.GroupID)}
}

func NewUpdateGroupMembersArgs(p investrepo.UpdateGroupMembersParams) UpdateGroupMembersArgs {
	out := UpdateGroupMembersArgs{
		Caller:  string(p.Caller),
		GroupID: string(p.GroupID),
		Updates: make([]MemberUpdate, 0, len(p.Updates)),
	}
	for _, u := range p.Updates {
		out.Updates = append(out.Updates, MemberUpdate{
			MemberID:   string(u.MemberID),
			Name:       u.Name,
			NationalID: u.NationalID,
			Phone:      u.Phone,
			FrontPhoto: u.FrontPhoto,
			BackPhoto:  u.BackPhoto,
			Titles:     u.Titles,
		})
	}
	return out
}

func (r GroupInvestmentCreated) Domain() domain.GroupInvestmentCreated {
	return domain.GroupInvestmentCreated{GroupID: domain.GroupID(r.GroupID), InvestmentID: domain.InvestmentID(r.InvestmentID)}
}

func (r InvestmentCreated) Domain() domain.InvestmentCreated {
	return domain.InvestmentCreated{InvestmentID: domain.InvestmentID(r.InvestmentID)}
}

func (s AddMembersSummary) Domain() domain.AddMembersSummary {
	return domain.AddMembersSummary{
		Attempted:         s.Attempted,
		Added:             s.Added,
		DuplicatesSkipped: s.DuplicatesSkipped,
		Errors:            s.Errors,
		SkippedPhones:     s.SkippedPhones,
	}
}

func (s UpdateMembersSummary) Domain() domain.UpdateMembersSummary {
	return domain.UpdateMembersSummary(s)
}

func MembersDomain(rows []MemberRow) []domain.GroupMember {
	out := make([]domain.GroupMember, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.GroupMember{
			ID:         domain.MemberID(r.ID),
			Kind:       domain.MemberKind(r.Kind),
			UserID:     domain.UserID(r.UserID),
			Titles:     r.Titles,
			Name:       r.Name,
			NationalID: r.NationalID,
			Phone:      r.Phone,
			FrontPhoto: r.FrontPhoto,
			BackPhoto:  r.BackPhoto,
		})
	}
	return out
}

// Titles are always sent as an array; the procedures reject JSON null there.
func titles(ts []string) []string {
	if ts == nil {
		return []string{}
	}
	return ts
}

func userMembers(ms []domain.UserMember) []UserMember {
	out := make([]UserMember, 0, len(ms))
	for _, m := range ms {
		out = append(out, UserMember{UserID: string(m.UserID), Titles: titles(m.Titles)})
	}
	return out
}

func externalMembers(ms []domain.ExternalMember) []ExternalMember {
	out := make([]ExternalMember, 0, len(ms))
	for _, m := range ms {
		out = append(out, ExternalMember{
			Name:       m.Name,
			NationalID: m.NationalID,
			Phone:      m.Phone,
			FrontPhoto: m.FrontPhoto,
			BackPhoto:  m.BackPhoto,
			Titles:     titles(m.Titles),
		})
	}
	return out
}
