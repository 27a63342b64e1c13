package investments

import (
	"errors"
	"net/http"
)

// Kind classifies every failure the investments core can return.
type Kind string

const (
	KindInvalidAmount           Kind = "INVALID_AMOUNT"
	KindInvalidDurationInput    Kind = "INVALID_DURATION_INPUT"
	KindDurationExceeds36Months Kind = "DURATION_EXCEEDS_36_MONTHS"
	KindDurationBelowOneMonth   Kind = "DURATION_BELOW_ONE_MONTH"
	KindEmptyGroupName          Kind = "EMPTY_GROUP_NAME"
	KindMissingLockedMonths     Kind = "MISSING_LOCKED_MONTHS"
	KindInvalidInvestmentType   Kind = "INVALID_INVESTMENT_TYPE"
	KindInvalidMember           Kind = "INVALID_MEMBER"
	KindDuplicateMemberPhone    Kind = "DUPLICATE_MEMBER_PHONE"
	KindMissingGroupID          Kind = "MISSING_GROUP_ID"
	KindTransportError          Kind = "TRANSPORT_ERROR"
	KindRemoteRejection         Kind = "REMOTE_REJECTION"
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details map[string]any

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// KindOf returns the Kind carried by err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func validationError(k Kind, message string, details map[string]any) *Error {
	return &Error{
		Kind:    k,
		Status:  http.StatusUnprocessableEntity,
		Code:    string(k),
		Message: message,
		Details: details,
	}
}
