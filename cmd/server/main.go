package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/deadliner/api/handler"
	"github.com/fastygo/deadliner/internal/app"
	"github.com/fastygo/deadliner/internal/config"
	"github.com/fastygo/deadliner/internal/middleware"
	"github.com/fastygo/deadliner/internal/router"
	"github.com/fastygo/deadliner/pkg/httpcontext"
	"github.com/fastygo/deadliner/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	application, err := app.Build(context.Background(), cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("startup failed", zap.String("mode", cfg.Storage.Mode), zap.Error(err))
	}
	appCtx, stop := application.Lifecycle.SignalContext(context.Background())
	defer stop()

	application.Start()

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Profile:  apiHandler.NewProfileHandler(application.Profile, ctxAdapter, zapLogger),
		Deadline: apiHandler.NewDeadlineHandler(application.Deadlines, ctxAdapter, zapLogger),
		Subtask:  apiHandler.NewSubtaskHandler(application.Subtasks, application.Deadlines, ctxAdapter, zapLogger),
		Category: apiHandler.NewCategoryHandler(application.Categories, ctxAdapter, zapLogger),
		Focus:    apiHandler.NewFocusHandler(application.Focus, ctxAdapter, zapLogger),
		Stats:    apiHandler.NewStatsHandler(application.Stats, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(application.Monitor, ctxAdapter, zapLogger),
	}

	protect := middleware.LocalUser(cfg.Storage.LocalUserID)
	if cfg.Remote() {
		handlers.Auth = apiHandler.NewAuthHandler(application.Auth, application.Signer, ctxAdapter, zapLogger, 0)
		protect = middleware.JWTAuth(application.Signer, application.Auth, zapLogger)
		if application.Sync != nil {
			handlers.Sync = apiHandler.NewSyncHandler(application.Sync, ctxAdapter, zapLogger)
		}
	}

	r := router.New(handlers, protect)

	server := &fasthttp.Server{
		Handler:      router.Handler(r, middleware.AccessLog(zapLogger)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("mode", cfg.Storage.Mode))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server crashed", zap.Error(err))
			stop()
		}
	}()

	application.Lifecycle.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := application.Close(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
