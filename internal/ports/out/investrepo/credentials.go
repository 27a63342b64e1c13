package investrepo

import "context"

type accessTokenKey struct{}

// WithAccessToken attaches the caller's bearer token. Remote collaborators forward it and
// resolve the acting user from it.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func AccessTokenFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accessTokenKey{}).(string)
	return v, ok && v != ""
}
