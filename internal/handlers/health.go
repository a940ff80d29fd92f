package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Database:    h.ping(ctx, "database", h.db),
		Cache:       h.ping(ctx, "cache", h.cache),
		Environment: h.cfg.Environment,
	})
}

func (h HandlerSet) ping(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		h.log.Error().Err(err).Str("backend", name).Msg("health ping failed")
		return "error"
	}
	return "ok"
}
