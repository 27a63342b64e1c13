package domain

// UserMember references an existing account.
type UserMember struct {
	UserID UserID
	Titles []string // e.g. "chairman", "admin"; nil means none
}

// ExternalMember is a member without an account, identified within a group by Phone.
type ExternalMember struct {
	Name       string
	NationalID string
	Phone      string
	FrontPhoto string // storage reference to the ID front image
	BackPhoto  string // storage reference to the ID back image
	Titles     []string
}

// MemberUpdate is a partial delta for one membership row. Nil fields are left untouched.
type MemberUpdate struct {
	MemberID MemberID

	Name       *string
	NationalID *string
	Phone      *string
	FrontPhoto *string
	BackPhoto  *string
	Titles     *[]string
}

// IsEmpty reports whether the update changes nothing.
func (u MemberUpdate) IsEmpty() bool {
	return u.Name == nil && u.NationalID == nil && u.Phone == nil &&
		u.FrontPhoto == nil && u.BackPhoto == nil && u.Titles == nil
}

// TouchesExternalFields reports whether the update sets fields that only external members carry.
func (u MemberUpdate) TouchesExternalFields() bool {
	return u.Name != nil || u.NationalID != nil || u.Phone != nil || u.FrontPhoto != nil || u.BackPhoto != nil
}

// AddMembersSummary is the per-item tally returned by the add-members procedure.
type AddMembersSummary struct {
	Attempted         int
	Added             int
	DuplicatesSkipped int
	Errors            int
	SkippedPhones     []string
}

// UpdateMembersSummary is the per-item tally returned by the update-members procedure.
type UpdateMembersSummary struct {
	Attempted int
	Updated   int
	NotFound  int
	WrongType int
	Errors    int
}

// MemberKind distinguishes account-backed members from external ones.
type MemberKind string

const (
	MemberKindUser     MemberKind = "user"
	MemberKindExternal MemberKind = "external"
)

// GroupMember is one membership row as stored by the collaborator.
// External-only fields are empty for user members.
type GroupMember struct {
	ID     MemberID
	Kind   MemberKind
	UserID UserID
	Titles []string

	Name       string
	NationalID string
	Phone      string
	FrontPhoto string
	BackPhoto  string
}

// HasTitle reports whether the member carries title (titles are stored lower-cased).
func (m GroupMember) HasTitle(title string) bool {
	for _, t := range m.Titles {
		if t == title {
			return true
		}
	}
	return false
}
