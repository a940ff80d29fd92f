package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/cache"
	"github.com/Nahomatnafu/dj-event-management/internal/config"
	"github.com/Nahomatnafu/dj-event-management/internal/database"
	"github.com/Nahomatnafu/dj-event-management/internal/handlers"
	"github.com/Nahomatnafu/dj-event-management/internal/log"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
	"github.com/Nahomatnafu/dj-event-management/internal/security"
	"github.com/Nahomatnafu/dj-event-management/internal/server"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	var (
		dbPool   *pgxpool.Pool
		accounts service.AccountStore
		hourLogs service.HourLogStore
		deps     handlers.Dependencies
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		store := repository.NewMemoryStore()
		accounts = store.Accounts()
		hourLogs = store.HourLogs()
	default:
		dbPool, err = database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect postgres")
		}
		if cfg.Postgres.AutoMigrate {
			if err := database.Migrate(ctx, dbPool); err != nil {
				logger.Fatal().Err(err).Msg("schema migration failed")
			}
		}
		accounts = repository.NewAccountRepository(dbPool)
		hourLogs = repository.NewHourLogRepository(dbPool)
		deps.Database = dbPool
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	codec := security.NewTokenCodec(cfg.Security.TokenSecret, cfg.Security.TokenTTL)
	sessions := service.NewSessionService(accounts, codec, cfg.Security, logger)
	if redisClient != nil {
		sessions.
			WithRevocations(cache.NewTokenRevocations(redisClient)).
			WithLoginThrottle(cache.NewLoginThrottle(redisClient, cfg.Security.LoginWindow))
		deps.Cache = cache.NewHealth(redisClient)
	} else {
		logger.Info().Msg("redis not configured; logout revocation and login throttling disabled")
	}

	deps.Sessions = sessions
	deps.Accounts = service.NewAccountService(accounts, logger)
	deps.HourLogs = service.NewHourLogService(hourLogs, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, deps)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
