package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"

	"github.com/chama-works/investments-api/internal/app/investments"
	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/idempotency"
)

const maxBodyBytes = 1 << 20

// ReplayRecorder is notified whenever a stored response is replayed.
type ReplayRecorder interface {
	IdempotentReplay()
}

type ServerOptions struct {
	Logger  *slog.Logger
	Replays ReplayRecorder
}

// Server holds the HTTP handlers. Handlers decode and validate the wire shape, call the
// investments service and map its result or *investments.Error onto a response.
type Server struct {
	Investments *investments.Service
	Idem        idempotency.Store

	log      *slog.Logger
	replays  ReplayRecorder
	validate *validator.Validate
}

func NewServer(svc *investments.Service, idem idempotency.Store, opts ServerOptions) *Server {
	if svc == nil {
		panic("httpapi: nil investments service")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		Investments: svc,
		Idem:        idem,
		log:         log,
		replays:     opts.Replays,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// decodeBody reads a JSON body into dst and runs the declarative checks. It writes the 422
// response itself and reports false when the request must stop.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unreadable request body", nil)
		return nil, false
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "missing request body", nil)
		return nil, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid JSON body", map[string]any{"details": err.Error()})
		return nil, false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request", validationDetails(err))
		return nil, false
	}
	return raw, true
}

func validationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]any{"details": err.Error()}
	}
	out := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		out[fe.Namespace()] = "failed " + reason
	}
	return out
}

func (s *Server) requireCaller(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
	}
	return caller, ok
}

func (s *Server) groupIDParam(w http.ResponseWriter, r *http.Request) (domain.GroupID, bool) {
	var gid string
	err := runtime.BindStyledParameterWithOptions("simple", "groupId", chi.URLParam(r, "groupId"), &gid, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || strings.TrimSpace(gid) == "" {
		writeError(w, r, http.StatusUnprocessableEntity, string(investments.KindMissingGroupID), "invalid groupId", nil)
		return "", false
	}
	return domain.GroupID(gid), true
}

func (s *Server) ValidateAmount(w http.ResponseWriter, r *http.Request) {
	var req AmountValidationRequest
	if _, ok := s.decodeBody(w, r, &req); !ok {
		return
	}
	a, err := investments.ValidateAmount(req.Amount)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, AmountValidationResponse{Amount: int64(a)})
}

func (s *Server) ValidateDuration(w http.ResponseWriter, r *http.Request) {
	var req DurationValidationRequest
	if _, ok := s.decodeBody(w, r, &req); !ok {
		return
	}
	d, err := investments.CombineDuration(req.Months, req.Years)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, DurationValidationResponse{TotalMonths: d.TotalMonths})
}

func (s *Server) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req CreateInvestmentRequest
	if _, ok := s.decodeBody(w, r, &req); !ok {
		return
	}
	created, err := s.Investments.SubmitInvestment(r.Context(), caller, investments.InvestmentInput{
		Type:         domain.InvestmentType(req.Type),
		Amount:       domain.Amount(req.Amount),
		LockedMonths: optionalInt(req.LockedMonths),
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateInvestmentResponse{InvestmentID: string(created.InvestmentID)})
}

func (s *Server) CreateGroupInvestment(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req CreateGroupInvestmentRequest
	if _, ok := s.decodeBody(w, r, &req); !ok {
		return
	}

	idem, err := s.beginIdempotent(r, caller, "/groups/investments", req)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	if idem.conflict {
		writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
		return
	}
	if idem.inProgress {
		writeError(w, r, http.StatusConflict, "IDEMPOTENCY_REQUEST_IN_PROGRESS", "a request with this idempotency key is still in progress", nil)
		return
	}
	if idem.replay != nil {
		if s.replays != nil {
			s.replays.IdempotentReplay()
		}
		w.Header().Set("Content-Type", idem.replay.ContentType)
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(idem.replay.StatusCode)
		_, _ = w.Write(idem.replay.Body)
		return
	}

	created, err := s.Investments.SubmitGroupInvestment(r.Context(), caller, req.input())
	if err != nil {
		s.abandonIdempotent(r, idem)
		writeAppError(w, r, s.log, err)
		return
	}
	body, err := json.Marshal(CreateGroupInvestmentResponse{
		GroupID:      string(created.GroupID),
		InvestmentID: string(created.InvestmentID),
	})
	if err != nil {
		s.abandonIdempotent(r, idem)
		writeAppError(w, r, s.log, err)
		return
	}
	body = append(body, '\n')
	s.finishIdempotent(r, idem, http.StatusCreated, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	gid, ok := s.groupIDParam(w, r)
	if !ok {
		return
	}
	ms, err := s.Investments.ListMembers(r.Context(), caller, gid)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	out := make([]GroupMemberResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, groupMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, ListMembersResponse{Members: out})
}

func (s *Server) AddMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	gid, ok := s.groupIDParam(w, r)
	if !ok {
		return
	}
	var req AddMembersRequest
	if _, ok := s.decodeBody(w, r, &req); !ok {
		return
	}
	res, err := s.Investments.AddMembers(r.Context(), caller, gid, investments.AddMembersInput{
		UserMembers:     userMembersFromRequest(req.UserMembers),
		ExternalMembers: externalMembersFromRequest(req.ExternalMembers),
	})
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	skipped := res.Summary.SkippedPhones
	if skipped == nil {
		skipped = []string{}
	}
	writeJSON(w, res.Outcome.HTTPStatus(), AddMembersResponse{
		Outcome:           string(res.Outcome),
		Attempted:         res.Summary.Attempted,
		Added:             res.Summary.Added,
		DuplicatesSkipped: res.Summary.DuplicatesSkipped,
		Errors:            res.Summary.Errors,
		SkippedPhones:     skipped,
	})
}

func (s *Server) UpdateMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	gid, ok := s.groupIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateMembersRequest
	if _, ok := s.decodeBody(w, r, &req); !ok {
		return
	}
	updates := make([]domain.MemberUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		updates = append(updates, u.memberUpdate())
	}
	res, err := s.Investments.UpdateMemberDetails(r.Context(), caller, gid, updates)
	if err != nil {
		writeAppError(w, r, s.log, err)
		return
	}
	writeJSON(w, res.Outcome.HTTPStatus(), UpdateMembersResponse{
		Outcome:   string(res.Outcome),
		Attempted: res.Summary.Attempted,
		Updated:   res.Summary.Updated,
		NotFound:  res.Summary.NotFound,
		WrongType: res.Summary.WrongType,
		Errors:    res.Summary.Errors,
	})
}
