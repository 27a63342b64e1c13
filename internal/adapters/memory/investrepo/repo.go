package investrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/clock"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

// Titles that grant member management rights in addition to being the group creator.
const (
	titleAdmin    = "admin"
	titleChairman = "chairman"
)

type investment struct {
	id           domain.InvestmentID
	group        domain.GroupID
	owner        domain.UserID
	typ          domain.InvestmentType
	amount       domain.Amount
	lockedMonths *int
	createdAt    time.Time
}

type group struct {
	id          domain.GroupID
	name        string
	description *string
	creator     domain.UserID
	createdAt   time.Time

	members []domain.GroupMember // join order
}

func (g *group) memberIndex(id domain.MemberID) int {
	for i, m := range g.members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (g *group) hasUser(id domain.UserID) bool {
	for _, m := range g.members {
		if m.Kind == domain.MemberKindUser && m.UserID == id {
			return true
		}
	}
	return false
}

// phoneOwner returns the member holding phone, or "" when none does.
func (g *group) phoneOwner(phone string) domain.MemberID {
	for _, m := range g.members {
		if m.Kind == domain.MemberKindExternal && m.Phone == phone {
			return m.ID
		}
	}
	return ""
}

func (g *group) canManage(caller domain.UserID) bool {
	if caller == g.creator {
		return true
	}
	for _, m := range g.members {
		if m.Kind == domain.MemberKindUser && m.UserID == caller && (m.HasTitle(titleAdmin) || m.HasTitle(titleChairman)) {
			return true
		}
	}
	return false
}

// Repo is an in-memory implementation of investrepo.Repository that mirrors the stored
// procedures' semantics. It is safe for concurrent use.
type Repo struct {
	mu    sync.RWMutex
	clock clock.Clock

	groups      map[domain.GroupID]*group
	investments map[domain.InvestmentID]investment
}

func NewRepo(clk clock.Clock) *Repo {
	if clk == nil {
		panic("memory investrepo: nil clock")
	}
	return &Repo{
		clock:       clk,
		groups:      make(map[domain.GroupID]*group),
		investments: make(map[domain.InvestmentID]investment),
	}
}

func (r *Repo) CreateGroupInvestment(ctx context.Context, p investrepo.CreateGroupInvestmentParams) (domain.GroupInvestmentCreated, error) {
	_ = ctx
	if p.Creator == "" {
		return domain.GroupInvestmentCreated{}, &investrepo.RemoteError{Code: investrepo.CodePermissionDenied, Message: "Not authenticated"}
	}
	if err := checkInvestment(p.Type, p.Amount, p.LockedMonths); err != nil {
		return domain.GroupInvestmentCreated{}, err
	}

	now := r.clock.Now()
	g := &group{
		id:          domain.GroupID(uuid.NewString()),
		name:        p.GroupName,
		description: cloneStringPtr(p.GroupDescription),
		creator:     p.Creator,
		createdAt:   now,
	}

	// The creator always joins as chairman unless listed explicitly.
	creatorListed := false
	for _, m := range p.UserMembers {
		if m.UserID == p.Creator {
			creatorListed = true
		}
	}
	if !creatorListed {
		g.members = append(g.members, newUserMember(domain.UserMember{UserID: p.Creator, Titles: []string{titleChairman}}))
	}
	for _, m := range p.UserMembers {
		if g.hasUser(m.UserID) {
			return domain.GroupInvestmentCreated{}, &investrepo.RemoteError{
				Code:    investrepo.CodeInvalidRequest,
				Message: "User is listed more than once",
				Details: string(m.UserID),
			}
		}
		g.members = append(g.members, newUserMember(m))
	}
	for _, m := range p.ExternalMembers {
		if g.phoneOwner(m.Phone) != "" {
			return domain.GroupInvestmentCreated{}, &investrepo.RemoteError{
				Code:    investrepo.CodeDuplicatePhone,
				Message: "A member with phone " + m.Phone + " already exists in this group",
				Details: m.Phone,
			}
		}
		g.members = append(g.members, newExternalMember(m))
	}

	inv := investment{
		id:           domain.InvestmentID(uuid.NewString()),
		group:        g.id,
		owner:        p.Creator,
		typ:          p.Type,
		amount:       p.Amount,
		lockedMonths: cloneIntPtr(p.LockedMonths),
		createdAt:    now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[g.id] = g
	r.investments[inv.id] = inv
	return domain.GroupInvestmentCreated{GroupID: g.id, InvestmentID: inv.id}, nil
}

func (r *Repo) CreateInvestment(ctx context.Context, p investrepo.CreateInvestmentParams) (domain.InvestmentCreated, error) {
	_ = ctx
	if p.Owner == "" {
		return domain.InvestmentCreated{}, &investrepo.RemoteError{Code: investrepo.CodePermissionDenied, Message: "Not authenticated"}
	}
	if err := checkInvestment(p.Type, p.Amount, p.LockedMonths); err != nil {
		return domain.InvestmentCreated{}, err
	}
	inv := investment{
		id:           domain.InvestmentID(uuid.NewString()),
		owner:        p.Owner,
		typ:          p.Type,
		amount:       p.Amount,
		lockedMonths: cloneIntPtr(p.LockedMonths),
		createdAt:    r.clock.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.investments[inv.id] = inv
	return domain.InvestmentCreated{InvestmentID: inv.id}, nil
}

func (r *Repo) AddGroupMembers(ctx context.Context, p investrepo.AddGroupMembersParams) (domain.AddMembersSummary, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	g, err := r.managedGroup(p.GroupID, p.Caller)
	if err != nil {
		return domain.AddMembersSummary{}, err
	}

	var sum domain.AddMembersSummary
	for _, m := range p.UserMembers {
		sum.Attempted++
		switch {
		case m.UserID == "":
			sum.Errors++
		case g.hasUser(m.UserID):
			sum.DuplicatesSkipped++
		default:
			g.members = append(g.members, newUserMember(m))
			sum.Added++
		}
	}
	for _, m := range p.ExternalMembers {
		sum.Attempted++
		switch {
		case m.Phone == "" || m.Name == "":
			sum.Errors++
		case g.phoneOwner(m.Phone) != "":
			sum.DuplicatesSkipped++
			sum.SkippedPhones = append(sum.SkippedPhones, m.Phone)
		default:
			g.members = append(g.members, newExternalMember(m))
			sum.Added++
		}
	}
	return sum, nil
}

func (r *Repo) ListGroupMembers(ctx context.Context, p investrepo.ListGroupMembersParams) ([]domain.GroupMember, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[p.GroupID]
	if !ok {
		return nil, groupNotFound()
	}
	if p.Caller != g.creator && !g.hasUser(p.Caller) {
		return nil, &investrepo.RemoteError{Code: investrepo.CodePermissionDenied, Message: "Only group members can view members"}
	}
	out := make([]domain.GroupMember, 0, len(g.members))
	for _, m := range g.members {
		out = append(out, cloneMember(m))
	}
	return out, nil
}

func (r *Repo) UpdateGroupMembers(ctx context.Context, p investrepo.UpdateGroupMembersParams) (domain.UpdateMembersSummary, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	g, err := r.managedGroup(p.GroupID, p.Caller)
	if err != nil {
		return domain.UpdateMembersSummary{}, err
	}

	var sum domain.UpdateMembersSummary
	for _, u := range p.Updates {
		sum.Attempted++
		i := g.memberIndex(u.MemberID)
		if i < 0 {
			sum.NotFound++
			continue
		}
		m := g.members[i]
		if m.Kind == domain.MemberKindUser && u.TouchesExternalFields() {
			sum.WrongType++
			continue
		}
		if u.IsEmpty() {
			continue
		}
		if u.Phone != nil {
			if owner := g.phoneOwner(*u.Phone); owner != "" && owner != m.ID {
				sum.Errors++
				continue
			}
		}
		applyUpdate(&m, u)
		g.members[i] = m
		sum.Updated++
	}
	return sum, nil
}

// managedGroup must be called with r.mu held.
func (r *Repo) managedGroup(id domain.GroupID, caller domain.UserID) (*group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, groupNotFound()
	}
	if !g.canManage(caller) {
		return nil, &investrepo.RemoteError{Code: investrepo.CodePermissionDenied, Message: "Only group admins can manage members"}
	}
	return g, nil
}

func checkInvestment(t domain.InvestmentType, amount domain.Amount, lockedMonths *int) error {
	if amount <= 0 {
		return &investrepo.RemoteError{Code: investrepo.CodeInvalidRequest, Message: "Amount must be greater than zero"}
	}
	switch t {
	case domain.InvestmentTypeNormal:
		return nil
	case domain.InvestmentTypeLocked:
		if lockedMonths == nil || *lockedMonths < domain.MinLockedMonths || *lockedMonths > domain.MaxLockedMonths {
			return &investrepo.RemoteError{Code: investrepo.CodeInvalidRequest, Message: "Locked investments require 1 to 36 locked months"}
		}
		return nil
	default:
		return &investrepo.RemoteError{Code: investrepo.CodeInvalidRequest, Message: "Unknown investment type"}
	}
}

func groupNotFound() error {
	return &investrepo.RemoteError{Code: investrepo.CodeGroupNotFound, Message: "Group not found"}
}

func newUserMember(m domain.UserMember) domain.GroupMember {
	return domain.GroupMember{
		ID:     domain.MemberID(uuid.NewString()),
		Kind:   domain.MemberKindUser,
		UserID: m.UserID,
		Titles: cloneStrings(m.Titles),
	}
}

func newExternalMember(m domain.ExternalMember) domain.GroupMember {
	return domain.GroupMember{
		ID:         domain.MemberID(uuid.NewString()),
		Kind:       domain.MemberKindExternal,
		Titles:     cloneStrings(m.Titles),
		Name:       m.Name,
		NationalID: m.NationalID,
		Phone:      m.Phone,
		FrontPhoto: m.FrontPhoto,
		BackPhoto:  m.BackPhoto,
	}
}

func applyUpdate(m *domain.GroupMember, u domain.MemberUpdate) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.NationalID != nil {
		m.NationalID = *u.NationalID
	}
	if u.Phone != nil {
		m.Phone = *u.Phone
	}
	if u.FrontPhoto != nil {
		m.FrontPhoto = *u.FrontPhoto
	}
	if u.BackPhoto != nil {
		m.BackPhoto = *u.BackPhoto
	}
	if u.Titles != nil {
		m.Titles = cloneStrings(*u.Titles)
	}
}

func cloneMember(m domain.GroupMember) domain.GroupMember {
	out := m
	out.Titles = cloneStrings(m.Titles)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
