package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Nahomatnafu/dj-event-management/internal/models"
)

// MemoryStore keeps accounts and hour logs in process. It backs the
// "memory" storage driver for local runs and the test suites, and enforces
// the same uniqueness and ownership constraints as the PostgreSQL schema.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts []models.Account
	logs     []models.HourLog
	nextAcct int64
	nextLog  int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// WithClock sets the time source used for created and updated timestamps.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Accounts() *MemoryAccountRepository {
	return &MemoryAccountRepository{store: s}
}

func (s *MemoryStore) HourLogs() *MemoryHourLogRepository {
	return &MemoryHourLogRepository{store: s}
}

func (s *MemoryStore) accountIndex(id int64) int {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) emailTaken(email string, except int64) bool {
	for _, a := range s.accounts {
		if a.Email == email && a.ID != except {
			return true
		}
	}
	return false
}

type MemoryAccountRepository struct {
	store *MemoryStore
}

func (r *MemoryAccountRepository) Create(_ context.Context, account models.Account) (models.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(account.Email, 0) {
		return models.Account{}, ErrEmailTaken
	}
	s.nextAcct++
	now := s.now().UTC()
	account.ID = s.nextAcct
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts = append(s.accounts, cloneAccount(account))
	return cloneAccount(account), nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id int64) (models.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.accountIndex(id); i >= 0 {
		return cloneAccount(s.accounts[i]), nil
	}
	return models.Account{}, ErrAccountNotFound
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (models.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return models.Account{}, ErrAccountNotFound
}

func (r *MemoryAccountRepository) List(_ context.Context) ([]models.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (r *MemoryAccountRepository) Update(_ context.Context, id int64, patch models.AccountPatch) (models.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.accountIndex(id)
	if i < 0 {
		return models.Account{}, ErrAccountNotFound
	}
	if patch.Email != nil && s.emailTaken(*patch.Email, id) {
		return models.Account{}, ErrEmailTaken
	}
	updated := patch.Apply(s.accounts[i])
	updated.UpdatedAt = s.now().UTC()
	s.accounts[i] = cloneAccount(updated)
	return cloneAccount(updated), nil
}

type MemoryHourLogRepository struct {
	store *MemoryStore
}

func (r *MemoryHourLogRepository) Create(_ context.Context, log models.HourLog) (models.HourLog, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountIndex(log.AccountID) < 0 {
		return models.HourLog{}, ErrAccountNotFound
	}
	s.nextLog++
	now := s.now().UTC()
	log.ID = s.nextLog
	log.CreatedAt = now
	log.UpdatedAt = now
	log.Owner = nil
	s.logs = append(s.logs, cloneHourLog(log))
	return cloneHourLog(log), nil
}

func (r *MemoryHourLogRepository) GetByID(_ context.Context, id int64) (models.HourLog, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.logs {
		if l.ID == id {
			return cloneHourLog(l), nil
		}
	}
	return models.HourLog{}, ErrHourLogNotFound
}

func (r *MemoryHourLogRepository) List(_ context.Context, filter HourLogFilter) ([]models.HourLog, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.HourLog{}
	for _, l := range s.logs {
		if !filter.Matches(l) {
			continue
		}
		log := cloneHourLog(l)
		if i := s.accountIndex(l.AccountID); i >= 0 {
			owner := s.accounts[i]
			log.Owner = &models.OwnerSummary{
				ID:              owner.ID,
				Name:            owner.Name,
				Email:           owner.Email,
				ServiceCategory: owner.ServiceCategory,
			}
		}
		out = append(out, log)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (r *MemoryHourLogRepository) TransitionStatus(_ context.Context, id int64, from, to models.HourLogStatus) (models.HourLog, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.logs {
		if s.logs[i].ID != id {
			continue
		}
		if s.logs[i].Status != from {
			return cloneHourLog(s.logs[i]), false, nil
		}
		s.logs[i].Status = to
		s.logs[i].UpdatedAt = s.now().UTC()
		return cloneHourLog(s.logs[i]), true, nil
	}
	return models.HourLog{}, false, ErrHourLogNotFound
}

func cloneAccount(a models.Account) models.Account {
	if a.PasswordHash != nil {
		a.PasswordHash = append([]byte(nil), a.PasswordHash...)
	}
	if a.ServiceCategory != nil {
		c := *a.ServiceCategory
		a.ServiceCategory = &c
	}
	return a
}

func cloneHourLog(l models.HourLog) models.HourLog {
	if l.Notes != nil {
		n := *l.Notes
		l.Notes = &n
	}
	if l.EquipmentPickupTime != nil {
		e := *l.EquipmentPickupTime
		l.EquipmentPickupTime = &e
	}
	if l.Mileage != nil {
		m := *l.Mileage
		l.Mileage = &m
	}
	if l.Owner != nil {
		o := *l.Owner
		l.Owner = &o
	}
	return l
}
