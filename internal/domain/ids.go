package domain

// UserID is the authenticated subject extracted from access-token claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the identity provider.
type UserID string

// GroupID is an identifier for an investment group record.
type GroupID string

// InvestmentID is an identifier for an investment record.
type InvestmentID string

// MemberID is an identifier for a group membership row.
type MemberID string
