package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// respondError is the single place service errors become HTTP responses.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation_failed", Message: verr.Message, Field: verr.Field})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid_credentials"})
	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, errorResponse{Error: "account_inactive"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, apperr.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too_many_attempts"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not_found"})
	case errors.Is(err, apperr.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorResponse{Error: "invalid_transition", Message: err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse{Error: "conflict", Message: "email already in use"})
	default:
		h.log.Error().
			Err(err).
			Str("request_id", c.Writer.Header().Get("X-Request-Id")).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}
