package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
	"github.com/Nahomatnafu/dj-event-management/internal/security"
)

var testParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func fastHash(password string) ([]byte, error) {
	return security.HashPasswordWithParams(password, testParams)
}

type fixture struct {
	store    *repository.MemoryStore
	accounts *AccountService
	logs     *HourLogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	return &fixture{
		store:    store,
		accounts: NewAccountService(store.Accounts(), zerolog.Nop()).WithHasher(fastHash),
		logs:     NewHourLogService(store.HourLogs(), zerolog.Nop()),
	}
}

func (f *fixture) account(t *testing.T, email, role, category, status string) models.Account {
	t.Helper()
	a, err := f.accounts.Create(context.Background(), CreateAccountInput{
		Email:           email,
		Password:        "password123",
		Name:            email,
		Role:            role,
		ServiceCategory: category,
		Status:          status,
	})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return a
}

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (r *memoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked == nil {
		r.revoked = map[string]time.Time{}
	}
	r.revoked[tokenID] = until
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[tokenID]
	return ok, nil
}

type memoryLimiter struct {
	mu       sync.Mutex
	failures map[string]int
}

func (l *memoryLimiter) Failures(_ context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures[key], nil
}

func (l *memoryLimiter) RecordFailure(_ context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failures == nil {
		l.failures = map[string]int{}
	}
	l.failures[key]++
	return l.failures[key], nil
}

func (l *memoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
	return nil
}
