package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/vancomm/roguesweeper/internal/app"
	"github.com/vancomm/roguesweeper/internal/audit"
	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/mines"
)

func main() {
	// a missing .env is fine, the environment may be set already
	_ = godotenv.Load()

	var logger *slog.Logger
	if config.Development() {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	mines.Log = logger.With(slog.String("component", "mines"))

	auditCfg, err := config.NewAudit()
	if err != nil {
		logger.Error("invalid audit config", slog.Any("error", err))
		os.Exit(1)
	}
	if err := audit.Configure(*auditCfg); err != nil {
		logger.Error("unable to open audit log", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps, cleanup, err := app.Load(ctx, logger)
	if err != nil {
		logger.Error("failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	a := app.New(logger, deps)
	if err := a.Serve(ctx, ":"+config.Port()); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		cleanup()
		os.Exit(1)
	}
}
