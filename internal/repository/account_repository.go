package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
)

var (
	ErrAccountNotFound = fmt.Errorf("account %w", apperr.ErrNotFound)
	ErrEmailTaken      = fmt.Errorf("email already registered: %w", apperr.ErrConflict)
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const accountColumns = `id, email, password_hash, name, role, service_category, status, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
		INSERT INTO accounts (
			email, password_hash, name, role, service_category, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
		RETURNING ` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Role,
		account.ServiceCategory,
		account.Status,
	)
	created, err := scanAccount(row)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return models.Account{}, ErrEmailTaken
		}
		return models.Account{}, err
	}
	return created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.one(ctx, query, email)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.one(ctx, query, id)
}

func (r *AccountRepository) List(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Update applies patch in a single statement. Unset fields keep their value.
func (r *AccountRepository) Update(ctx context.Context, id int64, patch models.AccountPatch) (models.Account, error) {
	const query = `
		UPDATE accounts SET
			email = COALESCE($2, email),
			password_hash = COALESCE($3, password_hash),
			name = COALESCE($4, name),
			role = COALESCE($5, role),
			service_category = CASE WHEN $6::boolean THEN NULL ELSE COALESCE($7, service_category) END,
			status = COALESCE($8, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		id,
		patch.Email,
		patch.PasswordHash,
		patch.Name,
		patch.Role,
		patch.ClearCategory,
		patch.ServiceCategory,
		patch.Status,
	)
	updated, err := scanAccount(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return models.Account{}, ErrAccountNotFound
		case isPgError(err, pgUniqueViolation):
			return models.Account{}, ErrEmailTaken
		}
		return models.Account{}, err
	}
	return updated, nil
}

func (r *AccountRepository) one(ctx context.Context, query string, arg any) (models.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Name,
		&account.Role,
		&account.ServiceCategory,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
