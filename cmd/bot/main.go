package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"

	_ "github.com/open-builders/giveaway-bot/docs"
	"github.com/open-builders/giveaway-bot/internal/common/config"
	"github.com/open-builders/giveaway-bot/internal/common/logger"
	dg "github.com/open-builders/giveaway-bot/internal/domain/giveaway"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/eligibility"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/events"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/notifications"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/repository/memory"
	redisrepo "github.com/open-builders/giveaway-bot/internal/features/giveaway/repository/redis"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/repository/sqlstore"
	"github.com/open-builders/giveaway-bot/internal/features/giveaway/service"
	apphttp "github.com/open-builders/giveaway-bot/internal/http"
	"github.com/open-builders/giveaway-bot/internal/i18n"
	"github.com/open-builders/giveaway-bot/internal/platform/clock"
	"github.com/open-builders/giveaway-bot/internal/platform/db"
	"github.com/open-builders/giveaway-bot/internal/platform/discord"
	natsplatform "github.com/open-builders/giveaway-bot/internal/platform/nats"
	redisplatform "github.com/open-builders/giveaway-bot/internal/platform/redis"
	"github.com/open-builders/giveaway-bot/internal/workers"
)

// @title           Giveaway Bot API
// @version         1.0
// @description     Operator API for Discord reaction giveaways.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description "ApiKey <key>" or "Bearer <jwt>"

// @tag.name giveaways
// @tag.description Giveaway lifecycle - start, edit, end, reroll and delete

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load: %v\n", err)
		os.Exit(1)
	}

	logger.Init("giveaway-bot", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Str("storage", cfg.Storage.Driver).Msg("Starting Giveaway Bot")

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Giveaway Bot stopped with error")
	}
	logger.Info().Msg("Giveaway Bot exited")
}

func run(cfg *config.Config) error {
	// Корневой контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready []apphttp.ReadinessCheck

	// Инициализируем Redis
	var rdb *redisplatform.Client
	if cfg.Redis.Host != "" {
		c, err := redisplatform.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("redis open: %w", err)
		}
		defer c.Close()
		rdb = c
		ready = append(ready, apphttp.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error {
			return c.Ping(ctx).Err()
		}})
	}

	// Инициализируем хранилище
	repo, sqlDB, err := openRepository(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	if sqlDB != nil {
		defer sqlDB.Close()
		ready = append(ready, apphttp.ReadinessCheck{Name: cfg.Storage.Driver, Check: sqlDB.PingContext})
	}

	// NATS опционален
	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = natsplatform.Open(cfg.NATS.URL, "giveaway-bot")
		if err != nil {
			return fmt.Errorf("nats open: %w", err)
		}
		defer nc.Close()
	}

	dc, err := discord.Open(ctx, cfg.Discord.Token, cfg.Discord.MemberCacheTTL)
	if err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	defer dc.Close()

	tr := i18n.New(cfg.Giveaway.Language)
	checker := eligibility.NewChecker(dc, tr, cfg.Giveaway.CustomCheckTimeout)
	if rdb != nil {
		checker.Register(eligibility.DenylistCheckName, eligibility.Denylist(rdb, cfg.Redis.DenylistKey))
	}

	bus := events.NewBus()
	engine := service.NewEngine(repo, dc, checker, bus, notifications.NewRenderer(tr, cfg.Giveaway.Reaction), clock.New(), service.Options{
		Reaction:                   cfg.Giveaway.Reaction,
		BotsCanWin:                 cfg.Giveaway.BotsCanWin,
		RejectionNoticeTTL:         cfg.Giveaway.RejectionNoticeTTL,
		MaxConcurrentFinalizations: cfg.Giveaway.MaxConcurrentFinalizations,
		RetryDelay:                 cfg.Giveaway.RetryDelay,
		EndedRetention:             cfg.Giveaway.EndedRetention,
	})
	defer engine.Stop()

	// Ретранслятор подписывается до восстановления, чтобы не терять события
	var relay *workers.EventRelay
	if rdb != nil || nc != nil {
		var natsPub workers.NATSPublisher
		if nc != nil {
			natsPub = nc
		}
		relay = workers.NewEventRelay(cmdable(rdb), cfg.Redis.EventStream, natsPub, cfg.NATS.SubjectPrefix)
		relay.Start(bus)
		defer relay.Stop()
	}

	if _, err := engine.Restore(ctx); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	if rdb != nil {
		commands := workers.NewRedisStreamWorker(rdb, engine, cfg.Redis.CommandStream, 0)
		if err := commands.Start(); err != nil {
			return fmt.Errorf("command stream: %w", err)
		}
		defer commands.Stop()
	}

	if cfg.Giveaway.EndedRetention > 0 {
		cleanup := workers.NewCleanupWorker(engine, cfg.Giveaway.CleanupInterval)
		cleanup.Start()
		defer cleanup.Stop()
	}

	if len(cfg.Auth.APIKeys) == 0 && cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("No API_KEYS or JWT_SECRET configured, operator API rejects every request")
	}

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Debug:     cfg.Debug,
		Origin:    cfg.Server.Origin,
		APIKeys:   cfg.Auth.APIKeys,
		JWTSecret: cfg.Auth.JWTSecret,
		Service:   engine,
		Ready:     ready,
	})

	// Создаем HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down...")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	return nil
}

func openRepository(ctx context.Context, cfg *config.Config, rdb *redisplatform.Client) (dg.Repository, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("STORAGE_DRIVER=redis requires REDIS_HOST")
		}
		return redisrepo.NewRepository(rdb), nil, nil
	case config.StoragePostgres, config.StorageSQLite:
		var (
			conn    *sql.DB
			dialect = sqlstore.Postgres
			err     error
		)
		if cfg.Storage.Driver == config.StorageSQLite {
			dialect = sqlstore.SQLite
			conn, err = db.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		} else {
			conn, err = db.OpenPostgres(ctx, cfg.Storage.PostgresDSN)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s open: %w", cfg.Storage.Driver, err)
		}
		repo := sqlstore.NewRepository(conn, dialect)
		if err := repo.Migrate(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repo, conn, nil
	default:
		logger.Warn().Msg("Using in-memory storage, giveaways will not survive a restart")
		return memory.NewRepository(), nil, nil
	}
}

// cmdable keeps a nil client from becoming a non-nil interface.
func cmdable(c *redisplatform.Client) goredis.Cmdable {
	if c == nil {
		return nil
	}
	return c
}
