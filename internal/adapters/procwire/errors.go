package procwire

import (
	"strings"

	"github.com/jackc/pgerrcode"

	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

// PhoneUniqueConstraint is the index guarding one external member per phone per group.
const PhoneUniqueConstraint = "group_members_phone_unique"

// ServerError is the subset of a Postgres error report the procedures communicate through,
// whether it arrives as a pgconn.PgError or as a PostgREST JSON body.
type ServerError struct {
	SQLState   string
	Message    string
	Detail     string
	Hint       string
	Constraint string
	Status     int
}

// Remote maps a procedure failure onto the shared rejection codes. The message is kept verbatim.
func (e ServerError) Remote() *investrepo.RemoteError {
	re := &investrepo.RemoteError{Message: e.Message, Details: e.Detail, Status: e.Status}
	switch e.SQLState {
	case pgerrcode.InsufficientPrivilege:
		re.Code = investrepo.CodePermissionDenied
	case pgerrcode.NoDataFound:
		re.Code = investrepo.CodeGroupNotFound
	case pgerrcode.RaiseException:
		re.Code = e.Hint
	case pgerrcode.UniqueViolation:
		if e.Constraint == PhoneUniqueConstraint || strings.Contains(e.Message, PhoneUniqueConstraint) {
			re.Code = investrepo.CodeDuplicatePhone
		}
	}
	if re.Code == "" {
		re.Code = investrepo.CodeInvalidRequest
	}
	return re
}
