package api

import (
	"net/http"

	chatapi "github.com/futig/docqa/internal/api/chat"
	"github.com/futig/docqa/internal/api/docs"
	"github.com/futig/docqa/internal/api/middleware"
	modelsapi "github.com/futig/docqa/internal/api/models"
	qaapi "github.com/futig/docqa/internal/api/qa"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router. There is no request
// timeout middleware: a model call may legitimately take minutes.
func SetupRouter(
	qaHandler *qaapi.Handler,
	chatHandler *chatapi.Handler,
	modelsHandler *modelsapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	if !docs.RegisterRoutes(r, docs.DefaultSpecPath) {
		logger.Warn("API docs disabled, spec file not found", zap.String("path", docs.DefaultSpecPath))
	}

	// Register routes
	qaapi.RegisterRoutes(r, qaHandler)
	chatapi.RegisterRoutes(r, chatHandler)
	modelsapi.RegisterRoutes(r, modelsHandler)

	return r
}
