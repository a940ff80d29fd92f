package handlers

import (
	"time"

	"github.com/Nahomatnafu/dj-event-management/internal/models"
)

type userResponse struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	ServiceCategory *string   `json:"serviceCategory"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newUserResponse(a models.Account) userResponse {
	return userResponse{
		ID:              a.ID,
		Email:           a.Email,
		Name:            a.Name,
		Role:            string(a.Role),
		ServiceCategory: categoryString(a.ServiceCategory),
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

type ownerResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	ServiceCategory *string `json:"serviceCategory"`
}

type hourLogResponse struct {
	ID                  int64          `json:"id"`
	UserID              int64          `json:"userId"`
	Date                string         `json:"date"`
	ServiceCategory     string         `json:"serviceCategory"`
	EventType           string         `json:"eventType"`
	ClientName          string         `json:"clientName"`
	Venue               string         `json:"venue"`
	StartTime           string         `json:"startTime"`
	EndTime             string         `json:"endTime"`
	TotalHours          float64        `json:"totalHours"`
	Notes               *string        `json:"notes"`
	Status              string         `json:"status"`
	EquipmentPickupTime *string        `json:"equipmentPickupTime"`
	Mileage             *float64       `json:"mileage"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	User                *ownerResponse `json:"user,omitempty"`
}

func newHourLogResponse(l models.HourLog) hourLogResponse {
	resp := hourLogResponse{
		ID:                  l.ID,
		UserID:              l.AccountID,
		Date:                l.Date,
		ServiceCategory:     string(l.ServiceCategory),
		EventType:           l.EventType,
		ClientName:          l.ClientName,
		Venue:               l.Venue,
		StartTime:           l.StartTime,
		EndTime:             l.EndTime,
		TotalHours:          l.TotalHours,
		Notes:               l.Notes,
		Status:              string(l.Status),
		EquipmentPickupTime: l.EquipmentPickupTime,
		Mileage:             l.Mileage,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
	if l.Owner != nil {
		resp.User = &ownerResponse{
			ID:              l.Owner.ID,
			Name:            l.Owner.Name,
			Email:           l.Owner.Email,
			ServiceCategory: categoryString(l.Owner.ServiceCategory),
		}
	}
	return resp
}

func categoryString(c *models.ServiceCategory) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}
