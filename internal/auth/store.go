package auth

import (
	"context"
	"time"
)

// CredentialStore persists accounts. Production wraps PostgreSQL
// (internal/store/pg); tests use in-memory fakes.
type CredentialStore interface {
	// Exists reports whether an account with the username is registered.
	Exists(ctx context.Context, username string) (bool, error)
	// FindByUsername returns the account or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// FindByID returns the account or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*Account, error)
	// Insert creates an account and returns the number of rows
	// affected. A uniqueness violation surfaces as ErrConflict — the
	// storage constraint is the backstop for the check-then-insert
	// race, the existence check alone is not sufficient.
	Insert(ctx context.Context, username, passwordHash, role string) (int64, error)
	// List returns all accounts ordered by id.
	List(ctx context.Context) ([]*Account, error)
}

// RevocationLedger tracks which refresh tokens are currently honored.
// Entries expire naturally with the store's own TTL mechanism; deleting
// an entry revokes the token immediately regardless of its embedded
// expiry. Production wraps Redis (internal/store/redisledger).
type RevocationLedger interface {
	// Put stores an entry keyed by the token with the given TTL.
	// Storing the same token twice silently overwrites.
	Put(ctx context.Context, userID, token string, ttl time.Duration) error
	// Exists probes for a live entry. An absent or naturally expired
	// key is (false, nil); only transport failures return an error,
	// wrapped as ErrStoreUnavailable.
	Exists(ctx context.Context, token string) (bool, error)
	// Delete removes an entry. Deleting an absent key succeeds.
	Delete(ctx context.Context, token string) error
}
