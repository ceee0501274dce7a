package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/middleware"
	"github.com/atinyakov/GophPass/internal/models"
)

// NewRouter constructs and returns an HTTP handler that serves the GophPass
// API.
//
// Routes:
//
//	GET /generate        → h.Generate
//	GET /passphrase      → h.Passphrase
//	GET /security-check  → h.SecurityCheck
//	GET /breach-check    → h.BreachCheck
//
// Middleware chain (applied in order):
//  1. RequestID, reusing the caller's X-Request-ID when present
//  2. Recoverer
//  3. WithRequestLogging(logger)
//  4. CORS for any origin
//  5. APIVersion
func NewRouter(h *PasswordHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{models.APIVersionHeader},
	}))
	r.Use(middleware.APIVersion)

	r.Get("/generate", h.Generate)
	r.Get("/passphrase", h.Passphrase)
	r.Get("/security-check", h.SecurityCheck)
	r.Get("/breach-check", h.BreachCheck)

	return r
}
