package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/idempotency"
)

const idempotencyKeyHeader = "Idempotency-Key"

type idempotentCall struct {
	metaFP     idempotency.Fingerprint
	respFP     idempotency.Fingerprint
	enabled    bool
	conflict   bool
	inProgress bool
	replay     *idempotency.Record
}

// beginIdempotent applies the replay rules for a request carrying Idempotency-Key:
//   - the first request atomically reserves subject+key+route and proceeds
//   - same body while the first is still running is rejected as in progress
//   - same body after it completed replays the stored response
//   - a different body is a conflict
//
// Two records are kept per key: a body-hash marker (BodyHash "") reserved up front and the
// response keyed by the hash. Without a key or a store the call is a plain pass-through.
func (s *Server) beginIdempotent(r *http.Request, caller domain.UserID, route string, body any) (idempotentCall, error) {
	key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if key == "" || s.Idem == nil {
		return idempotentCall{}, nil
	}
	bodyHash, err := hashBody(body)
	if err != nil {
		return idempotentCall{}, err
	}
	ctx := r.Context()
	metaFP := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: caller,
		Method:  r.Method,
		Route:   route,
	}
	respFP := metaFP
	respFP.BodyHash = bodyHash
	call := idempotentCall{metaFP: metaFP, respFP: respFP, enabled: true}

	meta, reserved, err := s.Idem.Reserve(ctx, metaFP, idempotency.Record{ContentType: "text/plain", Body: []byte(bodyHash)})
	if err != nil {
		return idempotentCall{}, err
	}
	if reserved {
		return call, nil
	}
	if string(meta.Body) != bodyHash {
		call.conflict = true
		return call, nil
	}
	rec, ok, err := s.Idem.Get(ctx, respFP)
	if err != nil {
		return idempotentCall{}, err
	}
	if !ok {
		call.inProgress = true
		return call, nil
	}
	call.replay = &rec
	return call, nil
}

// finishIdempotent stores a successful response for later replay. Storage failures are logged
// and otherwise ignored: the request itself already succeeded.
func (s *Server) finishIdempotent(r *http.Request, call idempotentCall, status int, body []byte) {
	if !call.enabled {
		return
	}
	err := s.Idem.Put(r.Context(), call.respFP, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		s.log.WarnContext(r.Context(), "failed to store idempotent response", "error", err, "key", call.respFP.Key)
		s.abandonIdempotent(r, call)
	}
}

// abandonIdempotent releases the reservation after a failed request so the key can be retried.
func (s *Server) abandonIdempotent(r *http.Request, call idempotentCall) {
	if !call.enabled {
		return
	}
	// The request context may already be cancelled; the release must still happen.
	ctx := context.WithoutCancel(r.Context())
	if err := s.Idem.Delete(ctx, call.metaFP); err != nil {
		s.log.WarnContext(ctx, "failed to release idempotency key", "error", err, "key", call.metaFP.Key)
	}
}

func hashBody(body any) (string, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
