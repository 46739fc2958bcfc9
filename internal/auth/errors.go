package auth

import "errors"

var (
	// ErrNotFound indicates the requested account does not exist.
	ErrNotFound = errors.New("auth: not found")
	// ErrConflict indicates the username is already taken.
	ErrConflict = errors.New("auth: already exists")
	// ErrUnauthorized covers every client-facing credential failure:
	// bad password, malformed/forged/expired tokens, revoked refresh
	// tokens. Detail never leaves the service boundary.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrStoreUnavailable indicates the revocation ledger or credential
	// store could not be reached. Distinct from "key absent" — callers
	// must not degrade this into a token rejection.
	ErrStoreUnavailable = errors.New("auth: store unavailable")

	// ErrTokenMalformed indicates the string is not a well-formed signed token.
	ErrTokenMalformed = errors.New("auth: malformed token")
	// ErrBadSignature indicates the signature check failed.
	ErrBadSignature = errors.New("auth: bad token signature")
)
