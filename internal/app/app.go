// Package app assembles the storage backend and use cases for the configured mode. The HTTP
// server and the MCP command share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/internal/config"
	"github.com/fastygo/deadliner/internal/infrastructure/buffer"
	"github.com/fastygo/deadliner/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/deadliner/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/deadliner/internal/infrastructure/redis"
	"github.com/fastygo/deadliner/internal/middleware"
	"github.com/fastygo/deadliner/internal/services"
	"github.com/fastygo/deadliner/internal/services/lifecycle"
	"github.com/fastygo/deadliner/repository/local"
	"github.com/fastygo/deadliner/repository/postgres"
	redisRepo "github.com/fastygo/deadliner/repository/redis"
	"github.com/fastygo/deadliner/usecase"
	authUC "github.com/fastygo/deadliner/usecase/auth"
	categoryUC "github.com/fastygo/deadliner/usecase/category"
	syncUC "github.com/fastygo/deadliner/usecase/cloudsync"
	deadlineUC "github.com/fastygo/deadliner/usecase/deadline"
	focusUC "github.com/fastygo/deadliner/usecase/focus"
	profileUC "github.com/fastygo/deadliner/usecase/profile"
	statsUC "github.com/fastygo/deadliner/usecase/stats"
	subtaskUC "github.com/fastygo/deadliner/usecase/subtask"
)

const (
	sessionTTL      = 24 * time.Hour
	monitorInterval = 10 * time.Second
	bufferBatchSize = 50
)

// App holds the wired components. Auth, Signer, Sync and Processor are nil in local mode.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Lifecycle *lifecycle.Manager
	Monitor   *monitor.Monitor
	Processor *services.BufferProcessor

	Auth       *authUC.UseCase
	Signer     *middleware.Signer
	Profile    *profileUC.UseCase
	Deadlines  *deadlineUC.UseCase
	Subtasks   *subtaskUC.UseCase
	Categories *categoryUC.UseCase
	Focus      *focusUC.UseCase
	Stats      *statsUC.UseCase
	Sync       *syncUC.UseCase
}

// Build opens the backend selected by cfg.Storage.Mode. On error every resource opened so
// far is released.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Lifecycle: lifecycle.New(cfg.Context.ShutdownTimeout, logger),
	}

	var err error
	if cfg.Remote() {
		err = a.buildRemote(ctx)
	} else {
		err = a.buildLocal(ctx)
	}
	if err != nil {
		return nil, errors.Join(err, a.Lifecycle.Shutdown(context.Background()))
	}
	return a, nil
}

func (a *App) buildLocal(ctx context.Context) error {
	cfg := a.Config
	db, err := local.Open(cfg.Storage.LocalPath)
	if err != nil {
		return err
	}
	a.Lifecycle.Closer("local_store", db.Close)

	a.Monitor = monitor.New(monitor.Targets{Mode: config.ModeLocal, Local: db}, monitorInterval, a.Logger)
	a.Lifecycle.Register("monitor", func(context.Context) error {
		a.Monitor.Stop()
		return nil
	})

	a.useCases(usecase.Deps{Store: db.Store(), Logger: a.Logger})

	if _, err := a.Profile.Ensure(ctx, cfg.Storage.LocalUserID); err != nil {
		return fmt.Errorf("ensure local user: %w", err)
	}
	a.Logger.Info("local storage ready",
		zap.String("path", cfg.Storage.LocalPath),
		zap.String("user_id", cfg.Storage.LocalUserID))
	return nil
}

func (a *App) buildRemote(ctx context.Context) error {
	cfg := a.Config
	if err := pgInfra.RunMigrations(cfg, a.Logger); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, a.Logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	a.Lifecycle.Register("postgres", func(context.Context) error {
		pgInfra.Close(pool, a.Logger)
		return nil
	})

	redisClient, err := redisInfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	a.Lifecycle.Closer("redis", redisClient.Close)

	queue, err := buffer.Open(cfg.Buffer.Path, buffer.Options{MaxItems: cfg.Buffer.MaxSize})
	if err != nil {
		return fmt.Errorf("buffer: %w", err)
	}
	a.Lifecycle.Closer("buffer", queue.Close)

	a.Monitor = monitor.New(monitor.Targets{
		Mode:     config.ModeRemote,
		Postgres: pool,
		Redis:    redisInfra.Ping(redisClient),
		Buffer:   queue,
	}, monitorInterval, a.Logger)
	a.Lifecycle.Register("monitor", func(context.Context) error {
		a.Monitor.Stop()
		return nil
	})

	store := postgres.NewStore(pool)
	cache := redisRepo.NewStatsCache(redisClient, cfg.Stats.CacheTTL)

	a.Processor = services.NewBufferProcessor(queue, a.Monitor, store, cache, a.Logger, services.ProcessorConfig{
		Interval:   cfg.Buffer.SyncInterval,
		BatchSize:  bufferBatchSize,
		MaxRetries: cfg.Buffer.MaxRetry,
		Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
	})
	a.Lifecycle.Register("buffer_processor", func(ctx context.Context) error {
		a.Processor.Stop(ctx)
		return nil
	})

	deps := usecase.Deps{
		Store:  store,
		Buffer: services.NewBufferBridge(a.Processor),
		Cache:  cache,
		Logger: a.Logger,
	}
	a.useCases(deps)

	a.Auth = authUC.New(store.Users, redisRepo.NewSessionRepository(redisClient, sessionTTL), nil, a.Logger)
	a.Signer = middleware.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)

	// A local file left from offline use can be pushed into an account.
	if _, err := os.Stat(cfg.Storage.LocalPath); err == nil {
		db, err := local.Open(cfg.Storage.LocalPath)
		if err != nil {
			return fmt.Errorf("local store: %w", err)
		}
		a.Lifecycle.Closer("local_store", db.Close)
		a.Sync = syncUC.New(db.Store(), store, cfg.Storage.LocalUserID, deps)
	}
	return nil
}

func (a *App) useCases(deps usecase.Deps) {
	a.Profile = profileUC.New(deps)
	a.Deadlines = deadlineUC.New(deps)
	a.Subtasks = subtaskUC.New(deps)
	a.Categories = categoryUC.New(deps)
	a.Focus = focusUC.New(deps)
	a.Stats = statsUC.New(deps, a.Config.Location())
}

// Start launches the background probes and the buffer drain.
func (a *App) Start() {
	a.Monitor.Start()
	if a.Processor != nil {
		a.Processor.Start()
	}
}

// Close stops every component in reverse start order.
func (a *App) Close(ctx context.Context) error {
	return a.Lifecycle.Shutdown(ctx)
}
