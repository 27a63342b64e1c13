package httpapi

import (
	"github.com/oapi-codegen/nullable"

	"github.com/chama-works/investments-api/internal/app/investments"
	"github.com/chama-works/investments-api/internal/domain"
)

type AmountValidationRequest struct {
	Amount string `json:"amount" validate:"max=32"`
}

type AmountValidationResponse struct {
	Amount int64 `json:"amount"`
}

type DurationValidationRequest struct {
	Months string `json:"months" validate:"max=16"`
	Years  string `json:"years" validate:"max=16"`
}

type DurationValidationResponse struct {
	TotalMonths int `json:"totalMonths"`
}

type UserMemberRequest struct {
	UserID string   `json:"userId" validate:"max=128"`
	Titles []string `json:"titles,omitempty" validate:"max=10,dive,max=64"`
}

type ExternalMemberRequest struct {
	Name       string   `json:"name" validate:"max=200"`
	NationalID string   `json:"nationalId" validate:"max=64"`
	Phone      string   `json:"phone" validate:"max=32"`
	FrontPhoto string   `json:"frontPhoto" validate:"max=512"`
	BackPhoto  string   `json:"backPhoto" validate:"max=512"`
	Titles     []string `json:"titles,omitempty" validate:"max=10,dive,max=64"`
}

type CreateInvestmentRequest struct {
	Type         string                 `json:"type"`
	Amount       int64                  `json:"amount"`
	LockedMonths nullable.Nullable[int] `json:"lockedMonths,omitempty"`
}

type CreateGroupInvestmentRequest struct {
	Type             string                    `json:"type"`
	Amount           int64                     `json:"amount"`
	LockedMonths     nullable.Nullable[int]    `json:"lockedMonths,omitempty"`
	GroupName        string                    `json:"groupName" validate:"max=200"`
	GroupDescription nullable.Nullable[string] `json:"groupDescription,omitempty" validate:"-"`
	UserMembers      []UserMemberRequest       `json:"userMembers" validate:"max=500,dive"`
	ExternalMembers  []ExternalMemberRequest   `json:"externalMembers" validate:"max=500,dive"`
}

type CreateGroupInvestmentResponse struct {
	GroupID      string `json:"groupId"`
	InvestmentID string `json:"investmentId"`
}

type CreateInvestmentResponse struct {
	InvestmentID string `json:"investmentId"`
}

type AddMembersRequest struct {
	UserMembers     []UserMemberRequest     `json:"userMembers" validate:"max=500,dive"`
	ExternalMembers []ExternalMemberRequest `json:"externalMembers" validate:"max=500,dive"`
}

// AddMembersResponse is the add summary in its wire shape plus the classified outcome.
type AddMembersResponse struct {
	Outcome           string   `json:"outcome"`
	Attempted         int      `json:"attempted"`
	Added             int      `json:"added"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	Errors            int      `json:"errors"`
	SkippedPhones     []string `json:"skipped_phones"`
}

// MemberUpdateRequest is one partial delta. An absent field is left unchanged; titles: null
// clears the titles.
type MemberUpdateRequest struct {
	MemberID   string                      `json:"memberId" validate:"max=128"`
	Name       nullable.Nullable[string]   `json:"name,omitempty" validate:"-"`
	NationalID nullable.Nullable[string]   `json:"nationalId,omitempty" validate:"-"`
	Phone      nullable.Nullable[string]   `json:"phone,omitempty" validate:"-"`
	FrontPhoto nullable.Nullable[string]   `json:"frontPhoto,omitempty" validate:"-"`
	BackPhoto  nullable.Nullable[string]   `json:"backPhoto,omitempty" validate:"-"`
	Titles     nullable.Nullable[[]string] `json:"titles,omitempty" validate:"-"`
}

type UpdateMembersRequest struct {
	Updates []MemberUpdateRequest `json:"updates" validate:"max=500,dive"`
}

type UpdateMembersResponse struct {
	Outcome   string `json:"outcome"`
	Attempted int    `json:"attempted"`
	Updated   int    `json:"updated"`
	NotFound  int    `json:"not_found"`
	WrongType int    `json:"wrong_type"`
	Errors    int    `json:"errors"`
}

type GroupMemberResponse struct {
	MemberID   string   `json:"memberId"`
	Kind       string   `json:"kind"`
	UserID     string   `json:"userId,omitempty"`
	Titles     []string `json:"titles"`
	Name       string   `json:"name,omitempty"`
	NationalID string   `json:"nationalId,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	FrontPhoto string   `json:"frontPhoto,omitempty"`
	BackPhoto  string   `json:"backPhoto,omitempty"`
}

type ListMembersResponse struct {
	Members []GroupMemberResponse `json:"members"`
}

func optionalInt(n nullable.Nullable[int]) int {
	if !n.IsSpecified() || n.IsNull() {
		return 0
	}
	v, _ := n.Get()
	return v
}

func optionalString(n nullable.Nullable[string]) *string {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v, err := n.Get()
	if err != nil {
		return nil
	}
	return &v
}

func userMembersFromRequest(in []UserMemberRequest) []domain.UserMember {
	out := make([]domain.UserMember, 0, len(in))
	for _, m := range in {
		out = append(out, domain.UserMember{UserID: domain.UserID(m.UserID), Titles: m.Titles})
	}
	return out
}

func externalMembersFromRequest(in []ExternalMemberRequest) []domain.ExternalMember {
	out := make([]domain.ExternalMember, 0, len(in))
	for _, m := range in {
		out = append(out, domain.ExternalMember{
			Name:       m.Name,
			NationalID: m.NationalID,
			Phone:      m.Phone,
			FrontPhoto: m.FrontPhoto,
			BackPhoto:  m.BackPhoto,
			Titles:     m.Titles,
		})
	}
	return out
}

func (r CreateGroupInvestmentRequest) input() investments.GroupInvestmentInput {
	return investments.GroupInvestmentInput{
		GroupName:        r.GroupName,
		GroupDescription: optionalString(r.GroupDescription),
		Type:             domain.InvestmentType(r.Type),
		Amount:           domain.Amount(r.Amount),
		LockedMonths:     optionalInt(r.LockedMonths),
		UserMembers:      userMembersFromRequest(r.UserMembers),
		ExternalMembers:  externalMembersFromRequest(r.ExternalMembers),
	}
}

// memberUpdate converts the wire delta. An explicit null on a text field is treated like an
// absent field; null titles clear them.
func (r MemberUpdateRequest) memberUpdate() domain.MemberUpdate {
	u := domain.MemberUpdate{
		MemberID:   domain.MemberID(r.MemberID),
		Name:       optionalString(r.Name),
		NationalID: optionalString(r.NationalID),
		Phone:      optionalString(r.Phone),
		FrontPhoto: optionalString(r.FrontPhoto),
		BackPhoto:  optionalString(r.BackPhoto),
	}
	if r.Titles.IsSpecified() {
		titles := []string{}
		if !r.Titles.IsNull() {
			if v, err := r.Titles.Get(); err == nil && v != nil {
				titles = v
			}
		}
		u.Titles = &titles
	}
	return u
}

func groupMemberResponse(m domain.GroupMember) GroupMemberResponse {
	titles := m.Titles
	if titles == nil {
		titles = []string{}
	}
	return GroupMemberResponse{
		MemberID:   string(m.ID),
		Kind:       string(m.Kind),
		UserID:     string(m.UserID),
		Titles:     titles,
		Name:       m.Name,
		NationalID: m.NationalID,
		Phone:      m.Phone,
		FrontPhoto: m.FrontPhoto,
		BackPhoto:  m.BackPhoto,
	}
}
