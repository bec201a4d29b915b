package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/logtriage/triage-api/internal/config"
	"github.com/logtriage/triage-api/internal/platform/gemini"
	"github.com/logtriage/triage-api/internal/rag"
	"github.com/logtriage/triage-api/internal/task"
	"github.com/logtriage/triage-api/internal/triage"
)

// application holds the shared application dependencies to simplify
// wiring and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Task lifecycle
	store   *task.Store
	manager *task.Manager

	// LLM-backed services
	analyzer  triage.Analyzer
	validator triage.Validator
	responder triage.ChatResponder

	// Reference document ingestion
	ingestor rag.Ingestor
}

// newApplication creates an application instance with all dependencies
// initialized and the background workers started.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// The Gemini service backs analysis, validation, and chat.
	llm, err := gemini.NewService(ctx, logger.With("component", "gemini"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini service: %w", err)
	}
	app.analyzer = llm
	app.validator = llm
	app.responder = llm
	logger.Info("Gemini service initialized", "model", cfg.LLM.ModelName)

	app.ingestor = rag.NewMockIngestor(logger.With("component", "rag"))

	app.store = task.NewStore()
	app.manager = task.NewManager(app.store, app.analyzer, task.ManagerConfig{
		WorkerCount:   cfg.Task.WorkerCount,
		QueueSize:     cfg.Task.QueueSize,
		Retention:     time.Duration(cfg.Task.RetentionMinutes) * time.Minute,
		SweepInterval: time.Minute,
	}, logger.With("component", "task_manager"))
	app.manager.Start()
	logger.Info("Task manager started",
		"workers", cfg.Task.WorkerCount,
		"queue_size", cfg.Task.QueueSize)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.manager != nil {
		app.manager.Stop()
	}
	app.logger.Info("Application shutdown completed")
}
