package auth

import "context"

type identityContextKey struct{}
type accessTokenContextKey struct{}

// Identity is the verified subject attached to a request after the
// authentication stage.
type Identity struct {
	SubjectID string
	Role      string
}

// ContextWithIdentity attaches the verified identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the verified identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || v.SubjectID == "" {
		return Identity{}, false
	}
	return v, true
}

// ContextWithAccessToken stores a freshly minted access token so the
// refresh handler can return it without re-running verification.
func ContextWithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenContextKey{}, token)
}

// AccessTokenFromContext returns the access token minted by the
// authentication stage on the refresh path.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(accessTokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
