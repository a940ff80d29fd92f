package models

import "time"

type HourLogStatus string

const (
	HourLogStatusPending  HourLogStatus = "pending"
	HourLogStatusApproved HourLogStatus = "approved"
	HourLogStatusRejected HourLogStatus = "rejected"
)

func (s HourLogStatus) Valid() bool {
	switch s {
	case HourLogStatusPending, HourLogStatusApproved, HourLogStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined out of s.
func (s HourLogStatus) Terminal() bool {
	return s == HourLogStatusApproved || s == HourLogStatusRejected
}

type HourLog struct {
	ID                  int64
	AccountID           int64
	Date                string
	ServiceCategory     ServiceCategory
	EventType           string
	ClientName          string
	Venue               string
	StartTime           string
	EndTime             string
	TotalHours          float64
	Notes               *string
	Status              HourLogStatus
	EquipmentPickupTime *string
	Mileage             *float64
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Owner is populated by list queries only.
	Owner *OwnerSummary
}

type OwnerSummary struct {
	ID              int64
	Name            string
	Email           string
	ServiceCategory *ServiceCategory
}
