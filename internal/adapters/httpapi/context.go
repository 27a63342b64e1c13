package httpapi

import (
	"context"

	"github.com/chama-works/investments-api/internal/domain"
)

type subjectKey struct{}

func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subjectID)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey{}).(string)
	return v, ok && v != ""
}

func callerFromContext(ctx context.Context) (domain.UserID, bool) {
	sub, ok := SubjectFromContext(ctx)
	return domain.UserID(sub), ok
}
