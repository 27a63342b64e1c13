package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/chama-works/investments-api/internal/app/investments"
)

// ErrorResponse is the body of every non-2xx answer. error and details keep the shape web
// clients already parse; code and requestId are diagnostic.
type ErrorResponse struct {
	Error     string                    `json:"error"`
	Details   nullable.Nullable[string] `json:"details,omitempty"`
	Code      string                    `json:"code,omitempty"`
	RequestID nullable.Nullable[string] `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	er := ErrorResponse{Error: message, Code: code}
	if d := detailsText(details); d != "" {
		er.Details = nullable.NewNullableWithValue(d)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.RequestID = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeAppError answers with the status and code carried by an *investments.Error. Anything else
// is an unexpected failure and is reported as a 500 without leaking its text.
func writeAppError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ae *investments.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	log.ErrorContext(r.Context(), "unhandled error", "error", err, "request_id", middleware.GetReqID(r.Context()))
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// detailsText flattens a details map into the single string the error body carries.
// A lone "details" entry is passed through verbatim.
func detailsText(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	if v, ok := details["details"].(string); ok && len(details) == 1 {
		return v
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, details[k]))
	}
	return strings.Join(parts, "; ")
}
