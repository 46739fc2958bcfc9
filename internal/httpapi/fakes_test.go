package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZR1ck/Auth-Service/internal/auth"
)

// memLedger is the in-memory revocation ledger fake.
type memLedger struct {
	mu      sync.Mutex
	entries map[string]time.Time
	failing bool
}

func newMemLedger() *memLedger {
	return &memLedger{entries: map[string]time.Time{}}
}

func (l *memLedger) Put(_ context.Context, _, token string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return errors.New("ledger down")
	}
	l.entries[token] = time.Now().Add(ttl)
	return nil
}

func (l *memLedger) Exists(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return false, errors.New("ledger down")
	}
	deadline, ok := l.entries[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(l.entries, token)
		return false, nil
	}
	return true, nil
}

func (l *memLedger) Delete(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return errors.New("ledger down")
	}
	delete(l.entries, token)
	return nil
}

func (l *memLedger) setFailing(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failing = v
}

// memStore is the in-memory credential store fake.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{accounts: map[string]*auth.Account{}, nextID: 1}
}

func (s *memStore) Exists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[strings.ToLower(username)]
	return ok, nil
}

func (s *memStore) FindByUsername(_ context.Context, username string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(username)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *memStore) FindByID(_ context.Context, id int64) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.ID == id {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *memStore) Insert(_ context.Context, username, passwordHash, role string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(username)
	if _, ok := s.accounts[key]; ok {
		return 0, auth.ErrConflict
	}
	s.accounts[key] = &auth.Account{
		ID:           s.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	s.nextID++
	return 1, nil
}

func (s *memStore) List(_ context.Context) ([]*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*auth.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		cp := *acc
		out = append(out, &cp)
	}
	return out, nil
}

// setRole flips an account's role so RBAC paths can be exercised
// without an admin bootstrap endpoint.
func (s *memStore) setRole(username, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[strings.ToLower(username)]; ok {
		acc.Role = role
	}
}

// testEnv assembles the full HTTP stack over in-memory fakes.
type testEnv struct {
	handler http.Handler
	store   *memStore
	ledger  *memLedger
	tokens  *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	access, err := auth.NewCodec([]byte("test-access-secret"), 30*time.Second, "auth-service")
	if err != nil {
		t.Fatalf("access codec: %v", err)
	}
	refresh, err := auth.NewCodec([]byte("test-refresh-secret"), time.Minute, "auth-service")
	if err != nil {
		t.Fatalf("refresh codec: %v", err)
	}

	ledger := newMemLedger()
	store := newMemStore()
	tokens := auth.NewTokenService(access, refresh, ledger)
	accounts := auth.NewService(store, tokens, ledger)
	api := New(accounts, tokens, DefaultPermissionTable(), ReadyProbe{}, "test")

	return &testEnv{
		handler: api.Handler(),
		store:   store,
		ledger:  ledger,
		tokens:  tokens,
	}
}
