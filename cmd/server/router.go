package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/logtriage/triage-api/internal/api"
	apiMiddleware "github.com/logtriage/triage-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	triageHandler := api.NewTriageHandler(app.manager, app.logger)
	validateHandler := api.NewValidateHandler(app.validator, app.logger)
	chatHandler := api.NewChatHandler(app.manager, app.responder, app.logger)
	ragHandler := api.NewRAGHandler(app.ingestor, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", validateHandler.Validate)

		r.Post("/triage", triageHandler.Submit)
		r.Get("/triage/status/{taskID}", triageHandler.Status)
		r.Post("/triage/cancel/{taskID}", triageHandler.Cancel)

		r.Post("/chat/{taskID}", chatHandler.Chat)

		r.Post("/rag/upload", ragHandler.Upload)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
