package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/policy"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
	"github.com/Nahomatnafu/dj-event-management/internal/worktime"
)

const dateLayout = "2006-01-02"

// HourLogService runs the hour-log workflow: submission by any account and
// review of pending logs by admins.
type HourLogService struct {
	logs HourLogStore
	log  zerolog.Logger
}

func NewHourLogService(logs HourLogStore, log zerolog.Logger) *HourLogService {
	return &HourLogService{
		logs: logs,
		log:  log,
	}
}

type SubmitHourLogInput struct {
	Date                string
	ServiceCategory     string
	EventType           string
	ClientName          string
	Venue               string
	StartTime           string
	EndTime             string
	Notes               *string
	EquipmentPickupTime *string
	Mileage             *float64
}

// Submit records a new log owned by actor. The log always starts pending and
// its total hours come from the start and end times.
func (s *HourLogService) Submit(ctx context.Context, actor models.Account, input SubmitHourLogInput) (models.HourLog, error) {
	log, err := buildHourLog(actor, input)
	if err != nil {
		return models.HourLog{}, err
	}

	created, err := s.logs.Create(ctx, log)
	if err != nil {
		return models.HourLog{}, classify("create hour log", err)
	}

	s.log.Info().
		Int64("hour_log_id", created.ID).
		Int64("account_id", created.AccountID).
		Float64("total_hours", created.TotalHours).
		Msg("hour log submitted")
	return created, nil
}

func buildHourLog(actor models.Account, input SubmitHourLogInput) (models.HourLog, error) {
	date := strings.TrimSpace(input.Date)
	if date == "" {
		return models.HourLog{}, apperr.Invalid("date", "is required")
	}
	if err := validateDate(date); err != nil {
		return models.HourLog{}, apperr.Invalid("date", "must be YYYY-MM-DD")
	}

	category := models.ServiceCategory(strings.TrimSpace(input.ServiceCategory))
	if category == "" && actor.ServiceCategory != nil {
		category = *actor.ServiceCategory
	}
	if !category.Valid() {
		return models.HourLog{}, apperr.Invalid("serviceCategory", "must be DJ, Videographer or Photographer")
	}

	required := []struct {
		field string
		value *string
	}{
		{"eventType", &input.EventType},
		{"clientName", &input.ClientName},
		{"venue", &input.Venue},
	}
	for _, r := range required {
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			return models.HourLog{}, apperr.Invalid(r.field, "is required")
		}
	}

	start, err := parseClockField("startTime", input.StartTime)
	if err != nil {
		return models.HourLog{}, err
	}
	end, err := parseClockField("endTime", input.EndTime)
	if err != nil {
		return models.HourLog{}, err
	}

	log := models.HourLog{
		AccountID:       policy.OwnerOf(actor),
		Date:            date,
		ServiceCategory: category,
		EventType:       input.EventType,
		ClientName:      input.ClientName,
		Venue:           input.Venue,
		StartTime:       start.String(),
		EndTime:         end.String(),
		TotalHours:      worktime.Hours(start, end),
		Notes:           trimmedOrNil(input.Notes),
		Status:          models.HourLogStatusPending,
	}

	if category == models.ServiceCategoryDJ {
		if pickup := trimmedOrNil(input.EquipmentPickupTime); pickup != nil {
			clock, err := parseClockField("equipmentPickupTime", *pickup)
			if err != nil {
				return models.HourLog{}, err
			}
			formatted := clock.String()
			log.EquipmentPickupTime = &formatted
		}
		if input.Mileage != nil {
			m := *input.Mileage
			if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
				return models.HourLog{}, apperr.Invalid("mileage", "must be zero or more")
			}
			log.Mileage = &m
		}
	}

	return log, nil
}

// HourLogSummary aggregates a listing the way the admin dashboard shows it.
type HourLogSummary struct {
	Count         int
	TotalHours    float64
	ApprovedHours float64
	PendingCount  int
}

type HourLogList struct {
	Logs    []models.HourLog
	Summary HourLogSummary
}

// List returns the logs visible to actor that match filter.
func (s *HourLogService) List(ctx context.Context, actor models.Account, filter repository.HourLogFilter) (HourLogList, error) {
	if err := validateFilter(filter); err != nil {
		return HourLogList{}, err
	}

	logs, err := s.logs.List(ctx, policy.ScopeHourLogs(actor, filter))
	if err != nil {
		return HourLogList{}, classify("list hour logs", err)
	}
	return HourLogList{Logs: logs, Summary: summarize(logs)}, nil
}

func validateFilter(f repository.HourLogFilter) error {
	if f.DateFrom != "" && validateDate(f.DateFrom) != nil {
		return apperr.Invalid("startDate", "must be YYYY-MM-DD")
	}
	if f.DateTo != "" && validateDate(f.DateTo) != nil {
		return apperr.Invalid("endDate", "must be YYYY-MM-DD")
	}
	if f.Category != "" && !f.Category.Valid() {
		return apperr.Invalid("category", "must be DJ, Videographer or Photographer")
	}
	if f.Status != "" && !f.Status.Valid() {
		return apperr.Invalid("status", "must be pending, approved or rejected")
	}
	return nil
}

func summarize(logs []models.HourLog) HourLogSummary {
	var sum HourLogSummary
	for _, l := range logs {
		sum.Count++
		sum.TotalHours += l.TotalHours
		switch l.Status {
		case models.HourLogStatusApproved:
			sum.ApprovedHours += l.TotalHours
		case models.HourLogStatusPending:
			sum.PendingCount++
		}
	}
	sum.TotalHours = roundTenth(sum.TotalHours)
	sum.ApprovedHours = roundTenth(sum.ApprovedHours)
	return sum
}

// Review moves a pending log to approved or rejected. Re-applying the
// status a log already has is a no-op; any other change to a reviewed log
// fails with apperr.ErrInvalidTransition.
func (s *HourLogService) Review(ctx context.Context, id int64, target string) (models.HourLog, error) {
	status := models.HourLogStatus(target)
	if status != models.HourLogStatusApproved && status != models.HourLogStatusRejected {
		return models.HourLog{}, apperr.Invalid("status", "must be approved or rejected")
	}

	log, applied, err := s.logs.TransitionStatus(ctx, id, models.HourLogStatusPending, status)
	if err != nil {
		return models.HourLog{}, classify("update hour log status", err)
	}
	if applied {
		s.log.Info().Int64("hour_log_id", id).Str("status", string(status)).Msg("hour log reviewed")
		return log, nil
	}
	if log.Status == status {
		return log, nil
	}

	return models.HourLog{}, fmt.Errorf("hour log %d is %s: %w", id, log.Status, apperr.ErrInvalidTransition)
}

func validateDate(value string) error {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return err
	}
	if parsed.Format(dateLayout) != value {
		return fmt.Errorf("date %q is not canonical", value)
	}
	return nil
}

func parseClockField(field, value string) (worktime.ClockTime, error) {
	if strings.TrimSpace(value) == "" {
		return worktime.ClockTime{}, apperr.Invalid(field, "is required")
	}
	clock, err := worktime.ParseClock(value)
	if err != nil {
		return worktime.ClockTime{}, apperr.Invalid(field, "must be HH:MM")
	}
	return clock, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
