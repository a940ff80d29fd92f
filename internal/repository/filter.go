package repository

import (
	"fmt"
	"strings"

	"github.com/Nahomatnafu/dj-event-management/internal/models"
)

// HourLogFilter is a conjunction of optional predicates over hour logs.
// Zero-valued fields place no restriction. Dates are inclusive YYYY-MM-DD.
type HourLogFilter struct {
	StaffID   *int64
	DateFrom  string
	DateTo    string
	Category  models.ServiceCategory
	EventType string
	Status    models.HourLogStatus
}

func (f HourLogFilter) Matches(log models.HourLog) bool {
	if f.StaffID != nil && log.AccountID != *f.StaffID {
		return false
	}
	// YYYY-MM-DD compares correctly as text
	if f.DateFrom != "" && log.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && log.Date > f.DateTo {
		return false
	}
	if f.Category != "" && log.ServiceCategory != f.Category {
		return false
	}
	if f.EventType != "" && log.EventType != f.EventType {
		return false
	}
	if f.Status != "" && log.Status != f.Status {
		return false
	}
	return true
}

// whereClause renders the filter against the hour_logs alias l.
func (f HourLogFilter) whereClause() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if f.StaffID != nil {
		add("l.account_id = $%d", *f.StaffID)
	}
	if f.DateFrom != "" {
		add("l.work_date >= CAST($%d::text AS date)", f.DateFrom)
	}
	if f.DateTo != "" {
		add("l.work_date <= CAST($%d::text AS date)", f.DateTo)
	}
	if f.Category != "" {
		add("l.service_category = $%d", string(f.Category))
	}
	if f.EventType != "" {
		add("l.event_type = $%d", f.EventType)
	}
	if f.Status != "" {
		add("l.status = $%d", string(f.Status))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
