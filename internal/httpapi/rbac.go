package httpapi

import (
	"net/http"

	"github.com/ZR1ck/Auth-Service/internal/auth"
	"github.com/ZR1ck/Auth-Service/internal/obs"
)

// withRBAC is the authorization interceptor. It runs strictly after
// withAuth and reads the identity that stage attached. A missing
// identity on a protected path means the pipeline is miswired, not
// that the client lacks credentials, so it is reported as an internal
// error rather than unauthorized.
func (a *API) withRBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			obs.LogEvent("authorization ran without identity", map[string]any{
				"level":      "error",
				"path":       r.URL.Path,
				"request_id": RequestIDFromContext(r.Context()),
			})
			writeError(w, r, http.StatusInternalServerError, "internal error")
			return
		}

		if !a.table.Allows(r.URL.Path, identity.Role) {
			writeError(w, r, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
