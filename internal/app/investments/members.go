package investments

import (
	"context"
	"fmt"
	"strings"

	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

// AddMembers attaches members to an existing group. External members repeating a phone within
// the submission are dropped before the call and reported as skipped duplicates.
func (s *Service) AddMembers(ctx context.Context, caller domain.UserID, groupID domain.GroupID, in AddMembersInput) (AddMembersResult, error) {
	const op = "add_group_members"

	gid, err := requireGroupID(groupID)
	if err != nil {
		return AddMembersResult{}, s.reject(op, err)
	}
	userMembers, err := normalizeUserMembers(in.UserMembers)
	if err != nil {
		return AddMembersResult{}, s.reject(op, err)
	}
	externalMembers, err := normalizeExternalMembers(in.ExternalMembers)
	if err != nil {
		return AddMembersResult{}, s.reject(op, err)
	}
	userMembers, userDupes := dedupeUsers(userMembers)
	externalMembers, skippedPhones := dedupePhones(externalMembers)

	var sum domain.AddMembersSummary
	if len(userMembers)+len(externalMembers) > 0 {
		sum, err = s.repo.AddGroupMembers(ctx, investrepo.AddGroupMembersParams{
			Caller:          caller,
			GroupID:         gid,
			UserMembers:     userMembers,
			ExternalMembers: externalMembers,
		})
		if err != nil {
			return AddMembersResult{}, s.remoteFailure(ctx, op, err)
		}
	}

	local := userDupes + len(skippedPhones)
	sum.Attempted += local
	sum.DuplicatesSkipped += local
	if len(skippedPhones) > 0 {
		sum.SkippedPhones = append(skippedPhones, sum.SkippedPhones...)
	}

	res := AddMembersResult{Summary: sum, Outcome: ClassifyAdd(sum)}
	s.rec.ObserveSubmission(op, string(res.Outcome))
	s.log.InfoContext(ctx, "group members added",
		"group_id", gid,
		"outcome", res.Outcome,
		"attempted", sum.Attempted,
		"added", sum.Added,
		"duplicates_skipped", sum.DuplicatesSkipped,
		"errors", sum.Errors,
	)
	return res, nil
}

// UpdateMemberDetails applies member deltas. Empty deltas are forwarded as-is: the collaborator
// counts them as attempted, which is what makes an all-empty batch classify as a no-op.
func (s *Service) UpdateMemberDetails(ctx context.Context, caller domain.UserID, groupID domain.GroupID, updates []domain.MemberUpdate) (UpdateMembersResult, error) {
	const op = "update_group_members"

	gid, err := requireGroupID(groupID)
	if err != nil {
		return UpdateMembersResult{}, s.reject(op, err)
	}
	normalized := make([]domain.MemberUpdate, 0, len(updates))
	phones := make(map[string]struct{}, len(updates))
	for i, u := range updates {
		nu, err := normalizeMemberUpdate(i, u)
		if err != nil {
			return UpdateMembersResult{}, s.reject(op, err)
		}
		if nu.Phone != nil {
			if _, ok := phones[*nu.Phone]; ok {
				return UpdateMembersResult{}, s.reject(op, validationError(KindDuplicateMemberPhone, "duplicate member phone", map[string]any{"phone": *nu.Phone}))
			}
			phones[*nu.Phone] = struct{}{}
		}
		normalized = append(normalized, nu)
	}

	var sum domain.UpdateMembersSummary
	if len(normalized) > 0 {
		sum, err = s.repo.UpdateGroupMembers(ctx, investrepo.UpdateGroupMembersParams{
			Caller:  caller,
			GroupID: gid,
			Updates: normalized,
		})
		if err != nil {
			return UpdateMembersResult{}, s.remoteFailure(ctx, op, err)
		}
	}

	res := UpdateMembersResult{Summary: sum, Outcome: ClassifyUpdate(sum)}
	s.rec.ObserveSubmission(op, string(res.Outcome))
	s.log.InfoContext(ctx, "group members updated",
		"group_id", gid,
		"outcome", res.Outcome,
		"attempted", sum.Attempted,
		"updated", sum.Updated,
		"not_found", sum.NotFound,
		"wrong_type", sum.WrongType,
		"errors", sum.Errors,
	)
	return res, nil
}

// ListMembers returns the current membership of a group visible to caller.
func (s *Service) ListMembers(ctx context.Context, caller domain.UserID, groupID domain.GroupID) ([]domain.GroupMember, error) {
	const op = "list_group_members"

	gid, err := requireGroupID(groupID)
	if err != nil {
		return nil, s.reject(op, err)
	}
	members, err := s.repo.ListGroupMembers(ctx, investrepo.ListGroupMembersParams{Caller: caller, GroupID: gid})
	if err != nil {
		return nil, s.remoteFailure(ctx, op, err)
	}
	if members == nil {
		members = []domain.GroupMember{}
	}
	return members, nil
}

func requireGroupID(id domain.GroupID) (domain.GroupID, error) {
	v := domain.GroupID(strings.TrimSpace(string(id)))
	if v == "" {
		return "", validationError(KindMissingGroupID, "invalid groupId", map[string]any{"groupId": "must be non-empty"})
	}
	return v, nil
}

func normalizeUserMembers(in []domain.UserMember) ([]domain.UserMember, error) {
	out := make([]domain.UserMember, 0, len(in))
	for i, m := range in {
		id := domain.UserID(strings.TrimSpace(string(m.UserID)))
		if id == "" {
			return nil, invalidMember(fmt.Sprintf("userMembers[%d].userId", i), "must be non-empty")
		}
		out = append(out, domain.UserMember{UserID: id, Titles: domain.NormalizeTitles(m.Titles)})
	}
	return out, nil
}

func normalizeExternalMembers(in []domain.ExternalMember) ([]domain.ExternalMember, error) {
	out := make([]domain.ExternalMember, 0, len(in))
	for i, m := range in {
		field := func(name string) string { return fmt.Sprintf("externalMembers[%d].%s", i, name) }
		nm := domain.ExternalMember{
			Name:       domain.NormalizeHumanName(m.Name),
			NationalID: strings.TrimSpace(m.NationalID),
			Phone:      domain.NormalizePhone(m.Phone),
			FrontPhoto: strings.TrimSpace(m.FrontPhoto),
			BackPhoto:  strings.TrimSpace(m.BackPhoto),
			Titles:     domain.NormalizeTitles(m.Titles),
		}
		switch {
		case nm.Name == "":
			return nil, invalidMember(field("name"), "must be non-empty")
		case nm.NationalID == "":
			return nil, invalidMember(field("nationalId"), "must be non-empty")
		case nm.Phone == "":
			return nil, invalidMember(field("phone"), "must be non-empty")
		case nm.FrontPhoto == "":
			return nil, invalidMember(field("frontPhoto"), "must be non-empty")
		case nm.BackPhoto == "":
			return nil, invalidMember(field("backPhoto"), "must be non-empty")
		}
		out = append(out, nm)
	}
	return out, nil
}

func normalizeMemberUpdate(i int, u domain.MemberUpdate) (domain.MemberUpdate, error) {
	field := func(name string) string { return fmt.Sprintf("updates[%d].%s", i, name) }
	out := domain.MemberUpdate{MemberID: domain.MemberID(strings.TrimSpace(string(u.MemberID)))}
	if out.MemberID == "" {
		return domain.MemberUpdate{}, invalidMember(field("memberId"), "must be non-empty")
	}

	setText := func(dst **string, src *string, name string, norm func(string) string) error {
		if src == nil {
			return nil
		}
		v := norm(*src)
		if v == "" {
			return invalidMember(field(name), "cannot be blank")
		}
		*dst = &v
		return nil
	}
	if err := setText(&out.Name, u.Name, "name", domain.NormalizeHumanName); err != nil {
		return domain.MemberUpdate{}, err
	}
	if err := setText(&out.NationalID, u.NationalID, "nationalId", strings.TrimSpace); err != nil {
		return domain.MemberUpdate{}, err
	}
	if err := setText(&out.Phone, u.Phone, "phone", domain.NormalizePhone); err != nil {
		return domain.MemberUpdate{}, err
	}
	if err := setText(&out.FrontPhoto, u.FrontPhoto, "frontPhoto", strings.TrimSpace); err != nil {
		return domain.MemberUpdate{}, err
	}
	if err := setText(&out.BackPhoto, u.BackPhoto, "backPhoto", strings.TrimSpace); err != nil {
		return domain.MemberUpdate{}, err
	}
	if u.Titles != nil {
		titles := domain.NormalizeTitles(*u.Titles)
		if titles == nil {
			titles = []string{}
		}
		out.Titles = &titles
	}
	return out, nil
}

func invalidMember(field, reason string) *Error {
	return validationError(KindInvalidMember, "invalid member", map[string]any{field: reason})
}

func firstDuplicatePhone(ms []domain.ExternalMember) string {
	seen := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		if _, ok := seen[m.Phone]; ok {
			return m.Phone
		}
		seen[m.Phone] = struct{}{}
	}
	return ""
}

func firstDuplicateUser(ms []domain.UserMember) domain.UserID {
	seen := make(map[domain.UserID]struct{}, len(ms))
	for _, m := range ms {
		if _, ok := seen[m.UserID]; ok {
			return m.UserID
		}
		seen[m.UserID] = struct{}{}
	}
	return ""
}

// dedupePhones keeps the first member per phone and returns the phones it dropped.
func dedupePhones(ms []domain.ExternalMember) ([]domain.ExternalMember, []string) {
	out := make([]domain.ExternalMember, 0, len(ms))
	var skipped []string
	seen := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		if _, ok := seen[m.Phone]; ok {
			skipped = append(skipped, m.Phone)
			continue
		}
		seen[m.Phone] = struct{}{}
		out = append(out, m)
	}
	return out, skipped
}

func dedupeUsers(ms []domain.UserMember) ([]domain.UserMember, int) {
	out := make([]domain.UserMember, 0, len(ms))
	dropped := 0
	seen := make(map[domain.UserID]struct{}, len(ms))
	for _, m := range ms {
		if _, ok := seen[m.UserID]; ok {
			dropped++
			continue
		}
		seen[m.UserID] = struct{}{}
		out = append(out, m)
	}
	return out, dropped
}
