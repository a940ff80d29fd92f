package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nahomatnafu/dj-event-management/internal/policy"
)

// Authorize must run after Auth.
func Authorize(op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := policy.Authorize(session.Account, op); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
