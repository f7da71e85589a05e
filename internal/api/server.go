// Package api provides the HTTP API server and handlers for the Flow Grid application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flowgrid/flowgrid-server/internal/config"
	"github.com/flowgrid/flowgrid-server/internal/http/response"
	"github.com/flowgrid/flowgrid-server/internal/validation"
)

// apiVersion reported in the OpenAPI document.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  *Services
	router    *chi.Mux
	api       huma.API
	validator *validation.Validator
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig(cfg.Server.Name, apiVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s := &Server{
		services:  services,
		router:    router,
		api:       humachi.New(router, humaConfig),
		validator: validation.New(),
		logger:    logger,
	}

	RegisterErrorHandler()

	s.setupMiddleware(cfg)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(clientIP)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes registers all typed API routes plus the raw routes that
// serve non-JSON bodies (teacher photos, CSV export).
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.registerFestivalRoutes()
	s.registerSessionRoutes()
	s.registerImportRoutes()
	s.registerTeacherRoutes()
	s.registerScheduleRoutes()
	s.registerBookingRoutes()

	// Binary and file download responses stay on plain chi handlers.
	s.router.Get("/api/v1/teachers/{id}/photo", s.handleGetTeacherPhoto)
	s.router.Get("/schedule/{slug}/export.csv", s.handleExportScheduleCSV)
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
