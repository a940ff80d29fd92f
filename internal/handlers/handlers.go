package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/config"
	"github.com/Nahomatnafu/dj-event-management/internal/middleware"
	"github.com/Nahomatnafu/dj-event-management/internal/policy"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

// Pinger is satisfied by *pgxpool.Pool and *cache.Health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators the handlers need. Database and Cache
// may be nil when the corresponding backend is not configured.
type Dependencies struct {
	Sessions *service.SessionService
	Accounts *service.AccountService
	HourLogs *service.HourLogService
	Database Pinger
	Cache    Pinger
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	sessions *service.SessionService
	accounts *service.AccountService
	hourLogs *service.HourLogService
	db       Pinger
	cache    Pinger
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		sessions: deps.Sessions,
		accounts: deps.Accounts,
		hourLogs: deps.HourLogs,
		db:       deps.Database,
		cache:    deps.Cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authenticated := middleware.Auth(h.sessions, h.log)
	allow := middleware.Authorize

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.GET("/session", authenticated, allow(policy.OpViewSession), h.Session)
		auth.POST("/logout", authenticated, allow(policy.OpViewSession), h.Logout)
	}

	users := router.Group("/users", authenticated)
	{
		users.GET("", allow(policy.OpListAccounts), h.ListAccounts)
		users.POST("", allow(policy.OpCreateAccount), h.CreateAccount)
		users.PATCH("/:id", allow(policy.OpUpdateAccount), h.UpdateAccount)
	}

	logs := router.Group("/hour-logs", authenticated)
	{
		logs.GET("", allow(policy.OpListHourLogs), h.ListHourLogs)
		logs.POST("", allow(policy.OpCreateHourLog), h.CreateHourLog)
		logs.PATCH("/:id", allow(policy.OpReviewHourLog), h.ReviewHourLog)
	}
}
