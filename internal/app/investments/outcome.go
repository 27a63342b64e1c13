package investments

import (
	"net/http"

	"github.com/chama-works/investments-api/internal/domain"
)

// Outcome is the classified result of a member add/update tally.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial"
	OutcomeFailure  Outcome = "failure"
	OutcomeNotFound Outcome = "not_found"
	OutcomeConflict Outcome = "conflict"
	OutcomeNoop     Outcome = "noop"
)

// HTTPStatus is the status a handler should answer with for this outcome.
func (o Outcome) HTTPStatus() int {
	switch o {
	case OutcomePartial:
		return http.StatusMultiStatus
	case OutcomeFailure:
		return http.StatusInternalServerError
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeConflict:
		return http.StatusConflict
	default:
		return http.StatusOK
	}
}

// ClassifyUpdate maps an update tally onto an Outcome.
//
// Order matters: any update applied wins over sub-errors (partial), and with nothing applied
// errors take precedence over not-found/wrong-type.
func ClassifyUpdate(s domain.UpdateMembersSummary) Outcome {
	missing := s.NotFound + s.WrongType
	switch {
	case s.Updated > 0 && (missing > 0 || s.Errors > 0):
		return OutcomePartial
	case s.Updated > 0:
		return OutcomeSuccess
	case s.Attempted > 0 && s.Errors > 0:
		return OutcomeFailure
	case s.Attempted > 0 && missing > 0:
		return OutcomeNotFound
	default:
		return OutcomeNoop
	}
}

// ClassifyAdd applies the same rule to an add tally, with duplicates in place of not-found.
func ClassifyAdd(s domain.AddMembersSummary) Outcome {
	switch {
	case s.Added > 0 && (s.DuplicatesSkipped > 0 || s.Errors > 0):
		return OutcomePartial
	case s.Added > 0:
		return OutcomeSuccess
	case s.Attempted > 0 && s.Errors > 0:
		return OutcomeFailure
	case s.Attempted > 0 && s.DuplicatesSkipped > 0:
		return OutcomeConflict
	default:
		return OutcomeNoop
	}
}
