package upstream

import "context"

type tokenKey struct{}

// WithToken injects the backend bearer token for outgoing requests. The
// session middleware resolves it per request; nothing here is global.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the backend bearer token, or empty when the
// request is unauthenticated.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}
