// Package httpapi is the HTTP layer: request interception (authn,
// rbac), the auth endpoints, and the operational endpoints.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/ZR1ck/Auth-Service/internal/auth"
	"github.com/ZR1ck/Auth-Service/internal/obs"
)

// ReadyProbe checks downstream dependencies for the readiness endpoint.
type ReadyProbe struct {
	DB     *sql.DB
	Ledger interface {
		Ping(ctx context.Context) error
	}
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB != nil {
		if err := rp.DB.PingContext(ctx); err != nil {
			return err
		}
	}
	if rp.Ledger != nil {
		if err := rp.Ledger.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	accounts   *auth.Service
	tokens     *auth.TokenService
	table      *auth.PermissionTable
	readyProbe ReadyProbe
	version    string
}

// New wires routes and dependencies. The permission table is consulted
// by the authorization interceptor; pass DefaultPermissionTable unless
// the deployment overrides it.
func New(accounts *auth.Service, tokens *auth.TokenService, table *auth.PermissionTable, rp ReadyProbe, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		accounts:   accounts,
		tokens:     tokens,
		table:      table,
		readyProbe: rp,
		version:    version,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// auth surface
	a.mux.HandleFunc("/api/auth/register", a.handleRegister)
	a.mux.HandleFunc("/api/auth/login", a.handleLogin)
	a.mux.HandleFunc("/api/auth/refresh", a.handleRefresh)
	a.mux.HandleFunc("/api/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/api/auth/me", a.handleMe)

	// admin surface
	a.mux.HandleFunc("/api/admin/users", a.handleListUsers)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"service": "auth-service"})
	})

	return a
}

// DefaultPermissionTable is the allow-list consulted by the
// authorization interceptor. Authentication ordering is enforced by
// pipeline position: authn always runs before this table is read.
func DefaultPermissionTable() *auth.PermissionTable {
	return auth.NewPermissionTable(map[string][]string{
		"/api/admin": {auth.RoleAdmin},
		"/api/user":  {auth.RoleUser, auth.RoleAdmin},
		"/api/auth":  {auth.RoleUser, auth.RoleAdmin},
	})
}

// Handler returns the complete middleware chain. Order matters: the
// authentication interceptor must attach the identity before the
// authorization interceptor reads it.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withRBAC(h)
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = RateLimit(h, 50, 25)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}
