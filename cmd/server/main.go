// Package main implements the entry point for the triage API server,
// which accepts log uploads, runs LLM-backed analysis in the background,
// and answers follow-up questions about completed reports.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/logtriage/triage-api/internal/config"
	"github.com/logtriage/triage-api/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		app.logger.Error("Server exited with error", "error", err)
		app.cleanup()
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, and wires the
// application dependencies.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"workers", cfg.Task.WorkerCount)

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return app, nil
}
