package investments_test

import (
	"net/http"
	"testing"

	"github.com/chama-works/investments-api/internal/app/investments"
	"github.com/chama-works/investments-api/internal/domain"
)

func TestClassifyUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   domain.UpdateMembersSummary
		want investments.Outcome
	}{
		{"partial with not found and errors", domain.UpdateMembersSummary{Attempted: 5, Updated: 3, NotFound: 1, Errors: 1}, investments.OutcomePartial},
		{"partial with wrong type only", domain.UpdateMembersSummary{Attempted: 2, Updated: 1, WrongType: 1}, investments.OutcomePartial},
		{"all updated", domain.UpdateMembersSummary{Attempted: 2, Updated: 2}, investments.OutcomeSuccess},
		{"no-op", domain.UpdateMembersSummary{Attempted: 3}, investments.OutcomeNoop},
		{"failure", domain.UpdateMembersSummary{Attempted: 2, Errors: 2}, investments.OutcomeFailure},
		{"errors win over not found", domain.UpdateMembersSummary{Attempted: 3, NotFound: 2, Errors: 1}, investments.OutcomeFailure},
		{"not found", domain.UpdateMembersSummary{Attempted: 2, NotFound: 2}, investments.OutcomeNotFound},
		{"wrong type counts as not found", domain.UpdateMembersSummary{Attempted: 1, WrongType: 1}, investments.OutcomeNotFound},
		{"nothing attempted", domain.UpdateMembersSummary{}, investments.OutcomeNoop},
	}
	for _, tt := range tests {
		if got := investments.ClassifyUpdate(tt.in); got != tt.want {
			t.Fatalf("%s: ClassifyUpdate(%+v)=%q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestClassifyAdd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   domain.AddMembersSummary
		want investments.Outcome
	}{
		{"partial", domain.AddMembersSummary{Attempted: 3, Added: 2, DuplicatesSkipped: 1}, investments.OutcomePartial},
		{"success", domain.AddMembersSummary{Attempted: 2, Added: 2}, investments.OutcomeSuccess},
		{"failure", domain.AddMembersSummary{Attempted: 2, Errors: 2}, investments.OutcomeFailure},
		{"duplicates only", domain.AddMembersSummary{Attempted: 2, DuplicatesSkipped: 2}, investments.OutcomeConflict},
		{"nothing", domain.AddMembersSummary{}, investments.OutcomeNoop},
	}
	for _, tt := range tests {
		if got := investments.ClassifyAdd(tt.in); got != tt.want {
			t.Fatalf("%s: ClassifyAdd(%+v)=%q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestOutcome_HTTPStatus(t *testing.T) {
	t.Parallel()

	want := map[investments.Outcome]int{
		investments.OutcomeSuccess:  http.StatusOK,
		investments.OutcomePartial:  http.StatusMultiStatus,
		investments.OutcomeFailure:  http.StatusInternalServerError,
		investments.OutcomeNotFound: http.StatusNotFound,
		investments.OutcomeConflict: http.StatusConflict,
		investments.OutcomeNoop:     http.StatusOK,
	}
	for o, status := range want {
		if got := o.HTTPStatus(); got != status {
			t.Fatalf("%s.HTTPStatus()=%d, want %d", o, got, status)
		}
	}
}
