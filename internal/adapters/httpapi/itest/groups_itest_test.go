package itest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestGroupInvestments_ITest(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b)

			// Subjects are unique per run so shared databases do not collide.
			creator := "itest|" + uuid.NewString()
			admin := "itest|" + uuid.NewString()
			outsider := "itest|" + uuid.NewString()
			phone := randomPhone()

			// Missing subject => 401
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/groups/investments", "", map[string]any{}, nil)
				requireErrorCode(t, status, body, http.StatusUnauthorized, "UNAUTHORIZED")
			}

			// Local validation never reaches the backend.
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/groups/investments", creator, map[string]any{
					"type": "locked", "amount": 1000, "groupName": "Umoja",
				}, nil)
				requireErrorCode(t, status, body, http.StatusUnprocessableEntity, "MISSING_LOCKED_MONTHS")
			}

			create := map[string]any{
				"type":             "locked",
				"amount":           50000,
				"lockedMonths":     12,
				"groupName":        "Umoja Savers",
				"groupDescription": "itest group",
				"userMembers":      []map[string]any{{"userId": admin, "titles": []string{"admin"}}},
				"externalMembers": []map[string]any{{
					"name": "Jane Wanjiku", "nationalId": "12345678", "phone": phone,
					"frontPhoto": "ids/front.jpg", "backPhoto": "ids/back.jpg",
				}},
			}
			key := map[string]string{"Idempotency-Key": uuid.NewString()}

			var created struct {
				GroupID      string `json:"groupId"`
				InvestmentID string `json:"investmentId"`
			}
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/groups/investments", creator, create, key)
				requireStatus(t, status, body, http.StatusCreated)
				created = mustUnmarshal[struct {
					GroupID      string `json:"groupId"`
					InvestmentID string `json:"investmentId"`
				}](t, body)
				if created.GroupID == "" || created.InvestmentID == "" {
					t.Fatalf("expected ids; body=%s", string(body))
				}
			}

			// Replaying the same submission answers from the first response.
			{
				status, body, hdr := srv.doJSON(t, http.MethodPost, "/groups/investments", creator, create, key)
				requireStatus(t, status, body, http.StatusCreated)
				if hdr.Get("Idempotent-Replayed") != "true" {
					t.Fatalf("expected replay")
				}
				again := mustUnmarshal[struct {
					GroupID string `json:"groupId"`
				}](t, body)
				if again.GroupID != created.GroupID {
					t.Fatalf("replay returned a different group: %s vs %s", again.GroupID, created.GroupID)
				}
			}

			membersPath := "/groups/" + created.GroupID + "/members"

			// Outsiders can neither list nor add.
			{
				status, body, _ := srv.doJSON(t, http.MethodGet, membersPath, outsider, nil, nil)
				requireErrorCode(t, status, body, http.StatusForbidden, "PERMISSION_DENIED")
				status, body, _ = srv.doJSON(t, http.MethodPost, membersPath, outsider, map[string]any{
					"userMembers": []map[string]any{{"userId": outsider}},
				}, nil)
				requireErrorCode(t, status, body, http.StatusForbidden, "PERMISSION_DENIED")
			}

			// Admin adds one new member and one duplicate phone => partial (207).
			newPhone := randomPhone()
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, membersPath, admin, map[string]any{
					"externalMembers": []map[string]any{
						{"name": "Jane Again", "nationalId": "1", "phone": phone, "frontPhoto": "f", "backPhoto": "b"},
						{"name": "Peter Otieno", "nationalId": "2", "phone": newPhone, "frontPhoto": "f", "backPhoto": "b"},
					},
				}, nil)
				requireStatus(t, status, body, http.StatusMultiStatus)
				sum := mustUnmarshal[struct {
					Outcome           string `json:"outcome"`
					Added             int    `json:"added"`
					DuplicatesSkipped int    `json:"duplicates_skipped"`
				}](t, body)
				if sum.Outcome != "partial" || sum.Added != 1 || sum.DuplicatesSkipped != 1 {
					t.Fatalf("unexpected summary: %s", string(body))
				}
			}

			var members struct {
				Members []struct {
					MemberID string `json:"memberId"`
					Kind     string `json:"kind"`
					UserID   string `json:"userId"`
					Phone    string `json:"phone"`
				} `json:"members"`
			}
			{
				status, body, _ := srv.doJSON(t, http.MethodGet, membersPath, creator, nil, nil)
				requireStatus(t, status, body, http.StatusOK)
				members = mustUnmarshal[struct {
					Members []struct {
						MemberID string `json:"memberId"`
						Kind     string `json:"kind"`
						UserID   string `json:"userId"`
						Phone    string `json:"phone"`
					} `json:"members"`
				}](t, body)
				if len(members.Members) != 4 {
					t.Fatalf("members=%d body=%s", len(members.Members), string(body))
				}
			}

			var adminID, peterID string
			for _, m := range members.Members {
				if m.UserID == admin {
					adminID = m.MemberID
				}
				if m.Phone == newPhone {
					peterID = m.MemberID
				}
			}

			// Updating a phone on a user member is wrong_type; with nothing applied => not_found (404).
			{
				status, body, _ := srv.doJSON(t, http.MethodPatch, membersPath, creator, map[string]any{
					"updates": []map[string]any{{"memberId": adminID, "phone": "+254711111111"}},
				}, nil)
				requireStatus(t, status, body, http.StatusNotFound)
			}

			// Taking another member's phone is an error; with nothing applied => failure (500 analog).
			{
				status, body, _ := srv.doJSON(t, http.MethodPatch, membersPath, creator, map[string]any{
					"updates": []map[string]any{{"memberId": peterID, "phone": phone}},
				}, nil)
				requireStatus(t, status, body, http.StatusInternalServerError)
				sum := mustUnmarshal[struct {
					Outcome string `json:"outcome"`
					Errors  int    `json:"errors"`
				}](t, body)
				if sum.Outcome != "failure" || sum.Errors != 1 {
					t.Fatalf("unexpected summary: %s", string(body))
				}
			}

			// A valid rename succeeds.
			{
				status, body, _ := srv.doJSON(t, http.MethodPatch, membersPath, creator, map[string]any{
					"updates": []map[string]any{{"memberId": peterID, "name": "Peter O. Otieno"}},
				}, nil)
				requireStatus(t, status, body, http.StatusOK)
			}
		})
	}
}

func randomPhone() string {
	return fmt.Sprintf("+2547%08d", uuid.New().ID()%100_000_000)
}
