package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ZR1ck/Auth-Service/internal/auth"
	"github.com/ZR1ck/Auth-Service/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "

	refreshPath   = "/api/auth/refresh"
	refreshCookie = "refresh_token"
)

var publicPaths = []string{
	"/",
	"/api/auth/register",
	"/api/auth/login",
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// withAuth is the authentication interceptor. The refresh endpoint is
// authenticated by the refresh_token cookie and the revocation ledger;
// every other protected path by the bearer access token. On success the
// verified identity is attached to the request context (plus the
// replacement access token on the refresh path) so downstream stages
// never re-parse the token.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if r.URL.Path == refreshPath {
			a.authenticateRefresh(w, r, next)
			return
		}
		a.authenticateAccess(w, r, next)
	})
}

func (a *API) authenticateAccess(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		obs.ObserveTokenVerification("access", "missing")
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	claims, err := a.tokens.VerifyAccessToken(token)
	if err != nil {
		obs.ObserveTokenVerification("access", "rejected")
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	obs.ObserveTokenVerification("access", "ok")

	ctx := auth.ContextWithIdentity(r.Context(), auth.Identity{
		SubjectID: claims.SubjectID(),
		Role:      claims.Role,
	})
	next.ServeHTTP(w, r.WithContext(ctx))
}

func (a *API) authenticateRefresh(w http.ResponseWriter, r *http.Request, next http.Handler) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		obs.ObserveTokenVerification("refresh", "missing")
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	accessToken, claims, err := a.tokens.VerifyRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			obs.ObserveTokenVerification("refresh", "store_unavailable")
			obs.LogEvent("refresh ledger unreachable", map[string]any{
				"level":      "error",
				"request_id": RequestIDFromContext(r.Context()),
				"error":      err.Error(),
			})
			writeError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		obs.ObserveTokenVerification("refresh", "rejected")
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	obs.ObserveTokenVerification("refresh", "ok")

	ctx := auth.ContextWithIdentity(r.Context(), auth.Identity{
		SubjectID: claims.SubjectID(),
		Role:      claims.Role,
	})
	ctx = auth.ContextWithAccessToken(ctx, accessToken)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(header, bearer) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
