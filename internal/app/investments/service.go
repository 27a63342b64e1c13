package investments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

const genericTransportMessage = "failed to reach investment service"

// Service validates investment submissions and forwards them to the transactional collaborator.
// It keeps no state between calls and never retries.
type Service struct {
	repo investrepo.Repository
	log  *slog.Logger
	rec  Recorder
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.rec = r
		}
	}
}

// NewService panics on a nil repository: that is a wiring bug, not a runtime condition.
func NewService(repo investrepo.Repository, opts ...Option) *Service {
	if repo == nil {
		panic("investments: nil investrepo.Repository")
	}
	s := &Service{
		repo: repo,
		log:  slog.Default(),
		rec:  nopRecorder{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SubmitGroupInvestment checks preconditions locally and then issues exactly one atomic
// create call carrying the group, its members and the investment.
func (s *Service) SubmitGroupInvestment(ctx context.Context, caller domain.UserID, in GroupInvestmentInput) (domain.GroupInvestmentCreated, error) {
	const op = "create_group_investment"

	if in.Amount <= 0 {
		return domain.GroupInvestmentCreated{}, s.reject(op, validationError(KindInvalidAmount, "invalid amount", map[string]any{"amount": "must be greater than zero"}))
	}
	name := domain.NormalizeHumanName(in.GroupName)
	if name == "" {
		return domain.GroupInvestmentCreated{}, s.reject(op, validationError(KindEmptyGroupName, "invalid groupName", map[string]any{"groupName": "must be non-empty"}))
	}
	lockedMonths, err := lockedMonthsFor(in.Type, in.LockedMonths)
	if err != nil {
		return domain.GroupInvestmentCreated{}, s.reject(op, err)
	}
	userMembers, err := normalizeUserMembers(in.UserMembers)
	if err != nil {
		return domain.GroupInvestmentCreated{}, s.reject(op, err)
	}
	if dup := firstDuplicateUser(userMembers); dup != "" {
		return domain.GroupInvestmentCreated{}, s.reject(op, validationError(KindInvalidMember, "invalid userMembers", map[string]any{"userMembers": "user " + string(dup) + " is listed more than once"}))
	}
	externalMembers, err := normalizeExternalMembers(in.ExternalMembers)
	if err != nil {
		return domain.GroupInvestmentCreated{}, s.reject(op, err)
	}
	if dup := firstDuplicatePhone(externalMembers); dup != "" {
		return domain.GroupInvestmentCreated{}, s.reject(op, validationError(KindDuplicateMemberPhone, "duplicate member phone", map[string]any{"phone": dup}))
	}

	created, err := s.repo.CreateGroupInvestment(ctx, investrepo.CreateGroupInvestmentParams{
		Creator:          caller,
		GroupName:        name,
		GroupDescription: normalizeOptionalText(in.GroupDescription),
		Type:             in.Type,
		Amount:           in.Amount,
		LockedMonths:     lockedMonths,
		UserMembers:      userMembers,
		ExternalMembers:  externalMembers,
	})
	if err != nil {
		return domain.GroupInvestmentCreated{}, s.remoteFailure(ctx, op, err)
	}

	s.rec.ObserveSubmission(op, "created")
	s.log.InfoContext(ctx, "group investment created",
		"group_id", created.GroupID,
		"investment_id", created.InvestmentID,
		"type", in.Type,
		"members", len(userMembers)+len(externalMembers),
	)
	return created, nil
}

// SubmitInvestment opens an individual investment owned by caller.
func (s *Service) SubmitInvestment(ctx context.Context, caller domain.UserID, in InvestmentInput) (domain.InvestmentCreated, error) {
	const op = "create_investment"

	if in.Amount <= 0 {
		return domain.InvestmentCreated{}, s.reject(op, validationError(KindInvalidAmount, "invalid amount", map[string]any{"amount": "must be greater than zero"}))
	}
	lockedMonths, err := lockedMonthsFor(in.Type, in.LockedMonths)
	if err != nil {
		return domain.InvestmentCreated{}, s.reject(op, err)
	}

	created, err := s.repo.CreateInvestment(ctx, investrepo.CreateInvestmentParams{
		Owner:        caller,
		Type:         in.Type,
		Amount:       in.Amount,
		LockedMonths: lockedMonths,
	})
	if err != nil {
		return domain.InvestmentCreated{}, s.remoteFailure(ctx, op, err)
	}

	s.rec.ObserveSubmission(op, "created")
	s.log.InfoContext(ctx, "investment created", "investment_id", created.InvestmentID, "type", in.Type)
	return created, nil
}

func lockedMonthsFor(raw domain.InvestmentType, months int) (*int, error) {
	t, err := domain.ParseInvestmentType(string(raw))
	if err != nil {
		return nil, validationError(KindInvalidInvestmentType, "invalid type", map[string]any{"type": "must be one of normal, locked"})
	}
	if t == domain.InvestmentTypeNormal {
		return nil, nil
	}
	if err := ValidateLockedMonths(months); err != nil {
		return nil, err
	}
	m := months
	return &m, nil
}

func (s *Service) reject(op string, err error) error {
	s.rec.ObserveSubmission(op, string(KindOf(err)))
	return err
}

// remoteFailure turns a collaborator error into the app taxonomy. Structured rejections keep the
// remote message verbatim; anything else is reported as a transport failure.
func (s *Service) remoteFailure(ctx context.Context, op string, err error) error {
	var re *investrepo.RemoteError
	if errors.As(err, &re) {
		s.log.WarnContext(ctx, "collaborator rejected request", "operation", op, "code", re.Code, "error", re.Message)
		s.rec.ObserveSubmission(op, string(KindRemoteRejection))

		code := re.Code
		if code == "" {
			code = string(KindRemoteRejection)
		}
		msg := re.Message
		if msg == "" {
			msg = "request rejected by investment service"
		}
		var details map[string]any
		if re.Details != "" {
			details = map[string]any{"details": re.Details}
		}
		return &Error{
			Kind:    KindRemoteRejection,
			Status:  remoteStatus(re),
			Code:    code,
			Message: msg,
			Details: details,
			cause:   err,
		}
	}

	s.log.ErrorContext(ctx, "collaborator call failed", "operation", op, "error", err)
	s.rec.ObserveSubmission(op, string(KindTransportError))
	return &Error{
		Kind:    KindTransportError,
		Status:  http.StatusBadGateway,
		Code:    string(KindTransportError),
		Message: genericTransportMessage,
		cause:   err,
	}
}

func remoteStatus(re *investrepo.RemoteError) int {
	switch re.Code {
	case investrepo.CodePermissionDenied:
		return http.StatusForbidden
	case investrepo.CodeGroupNotFound:
		return http.StatusNotFound
	case investrepo.CodeDuplicatePhone:
		return http.StatusConflict
	}
	switch {
	case re.Status >= 500:
		return http.StatusBadGateway
	case re.Status >= 400:
		return re.Status
	}
	return http.StatusBadRequest
}

func normalizeOptionalText(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
