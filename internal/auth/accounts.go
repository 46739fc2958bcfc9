package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Service implements the registration, login, and logout use cases on
// top of the credential store, the password capability, the token
// service, and the revocation ledger.
type Service struct {
	store  CredentialStore
	tokens *TokenService
	ledger RevocationLedger
}

// NewService wires the account use cases.
func NewService(store CredentialStore, tokens *TokenService, ledger RevocationLedger) *Service {
	return &Service{store: store, tokens: tokens, ledger: ledger}
}

// Register creates an account with the default role and returns the
// number of rows inserted. A taken username yields ErrConflict. The
// existence check precedes the insert; the window between the two is
// closed by the storage uniqueness constraint, which also maps to
// ErrConflict.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrUnauthorized)
	}
	exists, err := s.store.Exists(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return 0, ErrConflict
	}
	hash, err := HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	rows, err := s.store.Insert(ctx, username, hash, RoleUser)
	if err != nil {
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return rows, nil
}

// Login verifies the credentials, mints a token pair, and records the
// refresh token in the ledger with a TTL equal to its own lifetime.
// Unknown username → ErrNotFound; bad password → ErrUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	account, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrNotFound
		}
		return TokenPair{}, fmt.Errorf("fetch account: %w", err)
	}
	if err := VerifyPassword(account.PasswordHash, password); err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	subject := strconv.FormatInt(account.ID, 10)
	pair, err := s.tokens.MintPair(subject, account.Role)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.ledger.Put(ctx, subject, pair.RefreshToken, s.tokens.RefreshTTL()); err != nil {
		return TokenPair{}, fmt.Errorf("%w: record refresh token: %v", ErrStoreUnavailable, err)
	}
	return pair, nil
}

// Logout revokes the refresh token by deleting its ledger entry. The
// operation is idempotent; logging out an already absent token succeeds.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.ledger.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("%w: revoke refresh token: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Account resolves the account behind a token subject id.
func (s *Service) Account(ctx context.Context, subjectID string) (*Account, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(subjectID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject id", ErrNotFound)
	}
	return s.store.FindByID(ctx, id)
}

// ListAccounts returns all accounts for the admin surface.
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.store.List(ctx)
}
