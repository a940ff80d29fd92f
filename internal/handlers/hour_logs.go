package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/middleware"
	"github.com/Nahomatnafu/dj-event-management/internal/models"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

type summaryResponse struct {
	Count         int     `json:"count"`
	TotalHours    float64 `json:"totalHours"`
	ApprovedHours float64 `json:"approvedHours"`
	PendingCount  int     `json:"pendingCount"`
}

func (h HandlerSet) ListHourLogs(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	filter := repository.HourLogFilter{
		DateFrom:  c.Query("startDate"),
		DateTo:    c.Query("endDate"),
		Category:  models.ServiceCategory(c.Query("category")),
		EventType: c.Query("eventType"),
		Status:    models.HourLogStatus(c.Query("status")),
	}
	if raw := c.Query("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(c, apperr.Invalid("staffId", "must be an integer"))
			return
		}
		filter.StaffID = &staffID
	}

	result, err := h.hourLogs.List(c.Request.Context(), session.Account, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	logs := make([]hourLogResponse, 0, len(result.Logs))
	for _, l := range result.Logs {
		logs = append(logs, newHourLogResponse(l))
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"summary": summaryResponse{
			Count:         result.Summary.Count,
			TotalHours:    result.Summary.TotalHours,
			ApprovedHours: result.Summary.ApprovedHours,
			PendingCount:  result.Summary.PendingCount,
		},
	})
}

// createHourLogRequest has no owner, status or total hours; the server
// decides those.
type createHourLogRequest struct {
	Date                string   `json:"date"`
	ServiceCategory     string   `json:"serviceCategory"`
	EventType           string   `json:"eventType"`
	ClientName          string   `json:"clientName"`
	Venue               string   `json:"venue"`
	StartTime           string   `json:"startTime"`
	EndTime             string   `json:"endTime"`
	Notes               *string  `json:"notes"`
	EquipmentPickupTime *string  `json:"equipmentPickupTime"`
	Mileage             *float64 `json:"mileage"`
}

func (h HandlerSet) CreateHourLog(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req createHourLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	log, err := h.hourLogs.Submit(c.Request.Context(), session.Account, service.SubmitHourLogInput{
		Date:                req.Date,
		ServiceCategory:     req.ServiceCategory,
		EventType:           req.EventType,
		ClientName:          req.ClientName,
		Venue:               req.Venue,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Notes:               req.Notes,
		EquipmentPickupTime: req.EquipmentPickupTime,
		Mileage:             req.Mileage,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"log": newHourLogResponse(log),
	})
}

type reviewHourLogRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) ReviewHourLog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reviewHourLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Invalid("status", "is required"))
		return
	}

	log, err := h.hourLogs.Review(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"log": newHourLogResponse(log),
	})
}
