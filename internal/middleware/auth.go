package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/apperr"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

const currentSessionKey = "current_session"

// SessionResolver is implemented by service.SessionService.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (service.Session, error)
}

func Auth(sessions SessionResolver, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		session, err := sessions.Resolve(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
				return
			}
			log.Error().Err(err).Str("request_id", c.Writer.Header().Get(requestIDHeader)).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		c.Set(currentSessionKey, session)

		c.Next()
	}
}

// CurrentSession returns the session stored by Auth.
func CurrentSession(c *gin.Context) (service.Session, bool) {
	val, exists := c.Get(currentSessionKey)
	if !exists {
		return service.Session{}, false
	}
	session, ok := val.(service.Session)
	return session, ok
}
