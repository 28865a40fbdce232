// Package api provides the HTTP API server and handlers for the Filmarkiv catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/filmarkiv/filmarkiv-server/internal/logger"
	"github.com/filmarkiv/filmarkiv-server/internal/ratelimit"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

// Version is reported in the OpenAPI description.
const Version = "1.0.0"

// Services groups the business logic used by the handlers.
type Services struct {
	Movie   *service.MovieService
	Message *service.MessageService
	Search  *service.SearchService // nil when full-text search is disabled
}

// Options configures optional server behavior.
type Options struct {
	CORSOrigins []string
	// MessageLimiter limits contact messages per client; nil disables the limit.
	MessageLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store          store.Store
	services       *Services
	router         *chi.Mux
	api            huma.API
	logger         *slog.Logger
	messageLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	router := chi.NewRouter()

	s := &Server{
		store:          st,
		services:       services,
		router:         router,
		logger:         log,
		messageLimiter: opts.MessageLimiter,
	}

	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig("Filmarkiv API", Version)
	humaConfig.Info.Description = "Movie catalog and contact messages."
	// Response bodies are the bare envelopes the front-end expects, without $schema links.
	humaConfig.CreateHooks = nil

	RegisterErrorHandler()
	s.api = humachi.New(router, humaConfig)

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, used by tests and the OpenAPI dump.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(logger.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.AccessLog(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders: []string{logger.RequestIDHeader},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.NotFound(s.notFound)
	s.router.MethodNotAllowed(s.methodNotAllowed)
	s.router.Get("/", s.handleLiveness)

	s.registerHealthRoutes()
	s.registerMovieRoutes()
	if s.services.Search != nil {
		s.registerSearchRoutes()
	}
	s.registerGenreRoutes()
	s.registerMessageRoutes()
}

// handleLiveness answers the plain-text liveness check.
func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API is running..."))
}
