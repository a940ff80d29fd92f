package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
)

var ErrHourLogNotFound = fmt.Errorf("hour log %w", apperr.ErrNotFound)

const hourLogColumns = `
	l.id, l.account_id, to_char(l.work_date, 'YYYY-MM-DD'), l.service_category, l.event_type,
	l.client_name, l.venue, l.start_time, l.end_time, l.total_hours, l.notes, l.status,
	l.equipment_pickup_time, l.mileage, l.created_at, l.updated_at`

type HourLogRepository struct {
	pool *pgxpool.Pool
}

func NewHourLogRepository(pool *pgxpool.Pool) *HourLogRepository {
	return &HourLogRepository{pool: pool}
}

func (r *HourLogRepository) Create(ctx context.Context, log models.HourLog) (models.HourLog, error) {
	const query = `
		INSERT INTO hour_logs AS l (
			account_id, work_date, service_category, event_type, client_name, venue,
			start_time, end_time, total_hours, notes, status,
			equipment_pickup_time, mileage, created_at, updated_at
		) VALUES (
			$1, CAST($2::text AS date), $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, NOW(), NOW()
		)
		RETURNING ` + hourLogColumns

	row := r.pool.QueryRow(ctx, query,
		log.AccountID,
		log.Date,
		log.ServiceCategory,
		log.EventType,
		log.ClientName,
		log.Venue,
		log.StartTime,
		log.EndTime,
		log.TotalHours,
		log.Notes,
		log.Status,
		log.EquipmentPickupTime,
		log.Mileage,
	)
	created, err := scanHourLog(row)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return models.HourLog{}, ErrAccountNotFound
		}
		return models.HourLog{}, err
	}
	return created, nil
}

func (r *HourLogRepository) GetByID(ctx context.Context, id int64) (models.HourLog, error) {
	query := `SELECT ` + hourLogColumns + ` FROM hour_logs l WHERE l.id = $1`

	log, err := scanHourLog(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.HourLog{}, ErrHourLogNotFound
		}
		return models.HourLog{}, err
	}
	return log, nil
}

// List returns the logs matching filter, most recent work date first, each
// with its owner summary.
func (r *HourLogRepository) List(ctx context.Context, filter HourLogFilter) ([]models.HourLog, error) {
	where, args := filter.whereClause()
	query := `
		SELECT ` + hourLogColumns + `,
		       a.id, a.name, a.email, a.service_category
		FROM hour_logs l
		JOIN accounts a ON a.id = l.account_id
		` + where + `
		ORDER BY l.work_date DESC, l.created_at DESC, l.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.HourLog{}
	for rows.Next() {
		var (
			log   models.HourLog
			owner models.OwnerSummary
		)
		dest := append(hourLogDest(&log),
			&owner.ID,
			&owner.Name,
			&owner.Email,
			&owner.ServiceCategory,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		log.Owner = &owner
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// TransitionStatus moves the log from one status to another in a single
// conditional update. When the log is not in from, the current record is
// returned with applied=false.
func (r *HourLogRepository) TransitionStatus(ctx context.Context, id int64, from, to models.HourLogStatus) (models.HourLog, bool, error) {
	const query = `
		UPDATE hour_logs AS l
		SET status = $3, updated_at = NOW()
		WHERE l.id = $1 AND l.status = $2
		RETURNING ` + hourLogColumns

	log, err := scanHourLog(r.pool.QueryRow(ctx, query, id, from, to))
	if err == nil {
		return log, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.HourLog{}, false, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return models.HourLog{}, false, err
	}
	return current, false, nil
}

func hourLogDest(log *models.HourLog) []any {
	return []any{
		&log.ID,
		&log.AccountID,
		&log.Date,
		&log.ServiceCategory,
		&log.EventType,
		&log.ClientName,
		&log.Venue,
		&log.StartTime,
		&log.EndTime,
		&log.TotalHours,
		&log.Notes,
		&log.Status,
		&log.EquipmentPickupTime,
		&log.Mileage,
		&log.CreatedAt,
		&log.UpdatedAt,
	}
}

func scanHourLog(row pgx.Row) (models.HourLog, error) {
	var log models.HourLog
	err := row.Scan(hourLogDest(&log)...)
	return log, err
}
