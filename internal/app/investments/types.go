package investments

import "github.com/chama-works/investments-api/internal/domain"

// GroupInvestmentInput is what the create-group flow collects from the caller.
type GroupInvestmentInput struct {
	GroupName        string
	GroupDescription *string
	Type             domain.InvestmentType
	Amount           domain.Amount
	LockedMonths     int // required (1..36) for locked, ignored for normal

	UserMembers     []domain.UserMember
	ExternalMembers []domain.ExternalMember
}

type InvestmentInput struct {
	Type         domain.InvestmentType
	Amount       domain.Amount
	LockedMonths int
}

type AddMembersInput struct {
	UserMembers     []domain.UserMember
	ExternalMembers []domain.ExternalMember
}

type AddMembersResult struct {
	Summary domain.AddMembersSummary
	Outcome Outcome
}

type UpdateMembersResult struct {
	Summary domain.UpdateMembersSummary
	Outcome Outcome
}

// Recorder receives one observation per collaborator call. result is "created",
// an Outcome, or an error Kind.
type Recorder interface {
	ObserveSubmission(operation string, result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSubmission(string, string) {}
