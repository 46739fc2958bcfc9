package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ZR1ck/Auth-Service/internal/auth"
	"github.com/ZR1ck/Auth-Service/internal/obs"
)

type registerResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var creds auth.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	rows, err := a.accounts.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{RowsAffected: rows})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var creds auth.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := a.accounts.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		obs.ObserveLogin("rejected")
		handleAuthError(w, r, err)
		return
	}
	obs.ObserveLogin("ok")

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(a.tokens.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, pair)
}

// handleRefresh returns the replacement access token minted by the
// authentication interceptor. The refresh token itself is not rotated;
// it stays valid until logout or its own expiry.
func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	accessToken, ok := auth.AccessTokenFromContext(r.Context())
	if !ok {
		// Reaching the handler without the minted token means the
		// interceptor did not run.
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: accessToken})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var token string
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, "refresh token is required")
			return
		}
		token = body.RefreshToken
	}

	if err := a.accounts.Logout(r.Context(), token); err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			obs.LogEvent("logout ledger unreachable", map[string]any{
				"level":      "error",
				"request_id": RequestIDFromContext(r.Context()),
				"error":      err.Error(),
			})
		}
		handleAuthError(w, r, err)
		return
	}

	// Expire the cookie so well-behaved clients drop the token too.
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "logged_out"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	account, err := a.accounts.Account(r.Context(), identity.SubjectID)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	accounts, err := a.accounts.ListAccounts(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": accounts})
}
