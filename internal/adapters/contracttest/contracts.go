package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chama-works/investments-api/internal/domain"
	idempotencyport "github.com/chama-works/investments-api/internal/ports/out/idempotency"
	investrepoport "github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

type CleanupFunc = func()

type InvestRepoFactory func(t *testing.T) (investrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.UserID("user-1"),
		Method:   "POST",
		Route:    "/groups/investments",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// A different subject never sees another caller's record.
	other := fp
	other.Subject = domain.UserID("user-2")
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected miss for other subject, got ok=%v err=%v", ok, err)
	}

	// Reserve claims a fresh key once; later reservations see the first record.
	res := fp
	res.Key = idempotencyport.Key("r-" + uuid.NewString())
	first := idempotencyport.Record{ContentType: "text/plain", Body: []byte("hash-1")}
	if _, reserved, err := store.Reserve(ctx, res, first); err != nil || !reserved {
		t.Fatalf("first Reserve: reserved=%v err=%v", reserved, err)
	}
	existing, reserved, err := store.Reserve(ctx, res, idempotencyport.Record{ContentType: "text/plain", Body: []byte("hash-2")})
	if err != nil || reserved {
		t.Fatalf("second Reserve: reserved=%v err=%v", reserved, err)
	}
	if string(existing.Body) != "hash-1" {
		t.Fatalf("second Reserve should return the first record, got %q", string(existing.Body))
	}

	// Delete releases the key; deleting again is a no-op.
	if err := store.Delete(ctx, res); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, res); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, ok, err := store.Get(ctx, res); err != nil || ok {
		t.Fatalf("expected miss after Delete, got ok=%v err=%v", ok, err)
	}
	if _, reserved, err := store.Reserve(ctx, res, first); err != nil || !reserved {
		t.Fatalf("Reserve after Delete: reserved=%v err=%v", reserved, err)
	}
}

// RunInvestRepo exercises the procedure semantics every collaborator backend must share.
func RunInvestRepo(t *testing.T, newRepo InvestRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	suffix := uuid.NewString()[:8]
	creator := domain.UserID("creator-" + suffix)
	admin := domain.UserID("admin-" + suffix)
	outsider := domain.UserID("outsider-" + suffix)
	phoneA := "+2547000" + suffix[:4]
	phoneB := "+2547111" + suffix[:4]
	phoneC := "+2547222" + suffix[:4]
	months := 12

	created, err := repo.CreateGroupInvestment(ctx, investrepoport.CreateGroupInvestmentParams{
		Creator:      creator,
		GroupName:    "Chama A",
		Type:         domain.InvestmentTypeLocked,
		Amount:       50000,
		LockedMonths: &months,
		UserMembers:  []domain.UserMember{{UserID: admin, Titles: []string{"admin"}}},
		ExternalMembers: []domain.ExternalMember{{
			Name: "Wanjiku Kamau", NationalID: "12345678", Phone: phoneA, FrontPhoto: "f.jpg", BackPhoto: "b.jpg",
		}},
	})
	if err != nil {
		t.Fatalf("CreateGroupInvestment: %v", err)
	}
	if created.GroupID == "" || created.InvestmentID == "" {
		t.Fatalf("expected ids, got %+v", created)
	}

	// All-or-nothing: duplicate phones reject the whole creation.
	_, err = repo.CreateGroupInvestment(ctx, investrepoport.CreateGroupInvestmentParams{
		Creator:   creator,
		GroupName: "Chama B",
		Type:      domain.InvestmentTypeNormal,
		Amount:    1000,
		ExternalMembers: []domain.ExternalMember{
			{Name: "One", NationalID: "1", Phone: phoneC, FrontPhoto: "f", BackPhoto: "b"},
			{Name: "Two", NationalID: "2", Phone: phoneC, FrontPhoto: "f", BackPhoto: "b"},
		},
	})
	requireRemoteCode(t, err, investrepoport.CodeDuplicatePhone)

	inv, err := repo.CreateInvestment(ctx, investrepoport.CreateInvestmentParams{
		Owner:  creator,
		Type:   domain.InvestmentTypeNormal,
		Amount: 2500,
	})
	if err != nil || inv.InvestmentID == "" {
		t.Fatalf("CreateInvestment: id=%q err=%v", inv.InvestmentID, err)
	}

	// Membership listing: creator joins implicitly, order follows creation.
	members, err := repo.ListGroupMembers(ctx, investrepoport.ListGroupMembersParams{Caller: creator, GroupID: created.GroupID})
	if err != nil {
		t.Fatalf("ListGroupMembers: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %#v", members)
	}
	if members[0].Kind != domain.MemberKindUser || members[0].UserID != creator {
		t.Fatalf("expected creator first, got %#v", members[0])
	}
	var externalID, adminID domain.MemberID
	for _, m := range members {
		switch {
		case m.Kind == domain.MemberKindExternal && m.Phone == phoneA:
			externalID = m.ID
		case m.Kind == domain.MemberKindUser && m.UserID == admin:
			adminID = m.ID
		}
	}
	if externalID == "" || adminID == "" {
		t.Fatalf("expected admin and external members, got %#v", members)
	}

	_, err = repo.ListGroupMembers(ctx, investrepoport.ListGroupMembersParams{Caller: outsider, GroupID: created.GroupID})
	requireRemoteCode(t, err, investrepoport.CodePermissionDenied)

	missing := domain.GroupID(uuid.NewString())
	_, err = repo.AddGroupMembers(ctx, investrepoport.AddGroupMembersParams{
		Caller:      creator,
		GroupID:     missing,
		UserMembers: []domain.UserMember{{UserID: outsider}},
	})
	requireRemoteCode(t, err, investrepoport.CodeGroupNotFound)

	_, err = repo.AddGroupMembers(ctx, investrepoport.AddGroupMembersParams{
		Caller:      outsider,
		GroupID:     created.GroupID,
		UserMembers: []domain.UserMember{{UserID: outsider}},
	})
	requireRemoteCode(t, err, investrepoport.CodePermissionDenied)

	// Admin adds one new external member and repeats an existing phone.
	sum, err := repo.AddGroupMembers(ctx, investrepoport.AddGroupMembersParams{
		Caller:  admin,
		GroupID: created.GroupID,
		ExternalMembers: []domain.ExternalMember{
			{Name: "Repeat", NationalID: "3", Phone: phoneA, FrontPhoto: "f", BackPhoto: "b"},
			{Name: "Otieno Achieng", NationalID: "4", Phone: phoneB, FrontPhoto: "f", BackPhoto: "b"},
		},
	})
	if err != nil {
		t.Fatalf("AddGroupMembers: %v", err)
	}
	if sum.Attempted != 2 || sum.Added != 1 || sum.DuplicatesSkipped != 1 || sum.Errors != 0 {
		t.Fatalf("unexpected add summary: %+v", sum)
	}
	if len(sum.SkippedPhones) != 1 || sum.SkippedPhones[0] != phoneA {
		t.Fatalf("unexpected skipped phones: %#v", sum.SkippedPhones)
	}

	newName := "Wanjiku W. Kamau"
	newPhone := phoneB // taken by the member added above
	usum, err := repo.UpdateGroupMembers(ctx, investrepoport.UpdateGroupMembersParams{
		Caller:  creator,
		GroupID: created.GroupID,
		Updates: []domain.MemberUpdate{
			{MemberID: externalID, Name: &newName},
			{MemberID: domain.MemberID(uuid.NewString()), Name: &newName},
			{MemberID: adminID, Name: &newName},
			{MemberID: externalID, Phone: &newPhone},
			{MemberID: adminID},
		},
	})
	if err != nil {
		t.Fatalf("UpdateGroupMembers: %v", err)
	}
	want := domain.UpdateMembersSummary{Attempted: 5, Updated: 1, NotFound: 1, WrongType: 1, Errors: 1}
	if usum != want {
		t.Fatalf("unexpected update summary: got %+v want %+v", usum, want)
	}

	members, err = repo.ListGroupMembers(ctx, investrepoport.ListGroupMembersParams{Caller: admin, GroupID: created.GroupID})
	if err != nil {
		t.Fatalf("ListGroupMembers after update: %v", err)
	}
	found := false
	for _, m := range members {
		if m.ID == externalID {
			found = true
			if m.Name != newName || m.Phone != phoneA {
				t.Fatalf("unexpected updated member: %#v", m)
			}
		}
	}
	if !found {
		t.Fatalf("updated member missing from %#v", members)
	}

	titles := []string{"treasurer"}
	usum, err = repo.UpdateGroupMembers(ctx, investrepoport.UpdateGroupMembersParams{
		Caller:  admin,
		GroupID: created.GroupID,
		Updates: []domain.MemberUpdate{{MemberID: adminID, Titles: &titles}},
	})
	if err != nil || usum.Updated != 1 {
		t.Fatalf("titles update on user member: sum=%+v err=%v", usum, err)
	}
}

func requireRemoteCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected remote error %s, got nil", code)
	}
	var re *investrepoport.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RemoteError %s, got %T: %v", code, err, err)
	}
	if re.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, re.Code, re.Message)
	}
	if re.Message == "" {
		t.Fatalf("expected a remote message for %s", code)
	}
}
