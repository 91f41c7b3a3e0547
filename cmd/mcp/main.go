package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/fastygo/deadliner/internal/app"
	"github.com/fastygo/deadliner/internal/config"
	"github.com/fastygo/deadliner/internal/mcp"
	"github.com/fastygo/deadliner/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	userID := flag.String("user", cfg.Storage.LocalUserID, "user the tools act as")
	flag.Parse()

	// stdout carries the protocol.
	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Output:   os.Stderr,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	application, err := app.Build(context.Background(), cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("startup failed", zap.String("mode", cfg.Storage.Mode), zap.Error(err))
	}
	application.Start()
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			zapLogger.Error("shutdown error", zap.Error(err))
		}
	}()

	s := mcp.NewServer(mcp.Services{
		Deadlines: application.Deadlines,
		Stats:     application.Stats,
	}, *userID, zapLogger)

	zapLogger.Info("mcp server ready", zap.String("user_id", *userID), zap.String("mode", cfg.Storage.Mode))
	if err := mcp.Serve(s); err != nil {
		zapLogger.Error("mcp server stopped", zap.Error(err))
	}
}
