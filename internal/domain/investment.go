package domain

import "fmt"

// Amount is a whole-shilling (KES) money value.
type Amount int64

const (
	MinMemberContribution Amount = 500
	MaxMemberContribution Amount = 1_000_000
)

// Duration is a lock-in period expressed in whole months.
type Duration struct {
	TotalMonths int
}

const (
	MinLockedMonths = 1
	MaxLockedMonths = 36
)

type InvestmentType string

const (
	InvestmentTypeNormal InvestmentType = "normal"
	InvestmentTypeLocked InvestmentType = "locked"
)

func ParseInvestmentType(s string) (InvestmentType, error) {
	switch InvestmentType(s) {
	case InvestmentTypeNormal, InvestmentTypeLocked:
		return InvestmentType(s), nil
	default:
		return "", fmt.Errorf("unknown investment type %q", s)
	}
}

// GroupInvestmentCreated is returned when the atomic group creation succeeds.
type GroupInvestmentCreated struct {
	GroupID      GroupID
	InvestmentID InvestmentID
}

// InvestmentCreated is returned when an individual investment is opened.
type InvestmentCreated struct {
	InvestmentID InvestmentID
}
