package service

import (
	"context"
	"errors"
	"time"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
)

// AccountStore is implemented by repository.AccountRepository and
// repository.MemoryAccountRepository.
type AccountStore interface {
	Create(ctx context.Context, account models.Account) (models.Account, error)
	GetByID(ctx context.Context, id int64) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, id int64, patch models.AccountPatch) (models.Account, error)
}

// HourLogStore is implemented by repository.HourLogRepository and
// repository.MemoryHourLogRepository.
type HourLogStore interface {
	Create(ctx context.Context, log models.HourLog) (models.HourLog, error)
	GetByID(ctx context.Context, id int64) (models.HourLog, error)
	List(ctx context.Context, filter repository.HourLogFilter) ([]models.HourLog, error)
	TransitionStatus(ctx context.Context, id int64, from, to models.HourLogStatus) (models.HourLog, bool, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type LoginLimiter interface {
	Failures(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// classify keeps not-found and conflict errors visible to callers and hides
// everything else behind a StorageError.
func classify(op string, err error) error {
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConflict) {
		return err
	}
	return apperr.Storage(op, err)
}
