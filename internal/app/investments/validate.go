package investments

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chama-works/investments-api/internal/domain"
)

// ValidateAmount parses a member contribution typed by the user.
// The value must be a base-10 integer in [500, 1_000_000] KES; surrounding whitespace is ignored.
func ValidateAmount(raw string) (domain.Amount, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, validationError(KindInvalidAmount, "invalid amount", map[string]any{
			"amount": "must be a whole number of shillings",
		})
	}
	a := domain.Amount(v)
	if a < domain.MinMemberContribution || a > domain.MaxMemberContribution {
		return 0, validationError(KindInvalidAmount, "invalid amount", map[string]any{
			"amount": fmt.Sprintf("must be between %d and %d", domain.MinMemberContribution, domain.MaxMemberContribution),
		})
	}
	return a, nil
}

// CombineDuration merges separate months and years inputs into a lock-in period.
//
// Empty inputs count as zero. The exact sum months + years*12 is returned, never rounded or
// clamped, and must fall in [1, 36]. Negative components are rejected as invalid input.
func CombineDuration(monthsRaw, yearsRaw string) (domain.Duration, error) {
	months, err := parseDurationPart("months", monthsRaw)
	if err != nil {
		return domain.Duration{}, err
	}
	years, err := parseDurationPart("years", yearsRaw)
	if err != nil {
		return domain.Duration{}, err
	}

	// Bound the components first so years*12 cannot overflow.
	if months > domain.MaxLockedMonths || years > domain.MaxLockedMonths/12 {
		return domain.Duration{}, durationExceeds()
	}
	total := months + years*12
	if total > domain.MaxLockedMonths {
		return domain.Duration{}, durationExceeds()
	}
	if total < domain.MinLockedMonths {
		return domain.Duration{}, validationError(KindDurationBelowOneMonth, "invalid duration", map[string]any{
			"duration": "must be at least 1 month",
		})
	}
	return domain.Duration{TotalMonths: total}, nil
}

// ValidateLockedMonths checks an already-numeric lock-in period.
func ValidateLockedMonths(months int) error {
	if months <= 0 {
		return validationError(KindMissingLockedMonths, "invalid lockedMonths", map[string]any{
			"lockedMonths": "is required for locked investments and must be positive",
		})
	}
	if months > domain.MaxLockedMonths {
		return durationExceeds()
	}
	return nil
}

func parseDurationPart(field, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, validationError(KindInvalidDurationInput, "invalid duration", map[string]any{
			field: "must be a whole number",
		})
	}
	if v < 0 {
		return 0, validationError(KindInvalidDurationInput, "invalid duration", map[string]any{
			field: "must not be negative",
		})
	}
	return v, nil
}

func durationExceeds() *Error {
	return validationError(KindDurationExceeds36Months, "invalid duration", map[string]any{
		"duration": fmt.Sprintf("must not exceed %d months", domain.MaxLockedMonths),
	})
}
