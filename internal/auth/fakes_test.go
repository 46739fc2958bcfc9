package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// memoryLedger is the in-memory RevocationLedger fake used across the
// package tests.
type memoryLedger struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
	failing bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{entries: map[string]time.Time{}, now: time.Now}
}

func (l *memoryLedger) Put(_ context.Context, _, token string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return errors.New("ledger down")
	}
	l.entries[token] = l.now().Add(ttl)
	return nil
}

func (l *memoryLedger) Exists(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return false, errors.New("ledger down")
	}
	deadline, ok := l.entries[token]
	if !ok {
		return false, nil
	}
	if l.now().After(deadline) {
		delete(l.entries, token)
		return false, nil
	}
	return true, nil
}

func (l *memoryLedger) Delete(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return errors.New("ledger down")
	}
	delete(l.entries, token)
	return nil
}

func (l *memoryLedger) setFailing(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failing = v
}

// memoryStore is the in-memory CredentialStore fake.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	nextID   int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: map[string]*Account{}, nextID: 1}
}

func (s *memoryStore) Exists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[strings.ToLower(username)]
	return ok, nil
}

func (s *memoryStore) FindByUsername(_ context.Context, username string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *memoryStore) FindByID(_ context.Context, id int64) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.ID == id {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) Insert(_ context.Context, username, passwordHash, role string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(username)
	if _, ok := s.accounts[key]; ok {
		return 0, ErrConflict
	}
	s.accounts[key] = &Account{
		ID:           s.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	s.nextID++
	return 1, nil
}

func (s *memoryStore) List(_ context.Context) ([]*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		cp := *acc
		out = append(out, &cp)
	}
	return out, nil
}
