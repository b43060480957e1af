// Package api provides the HTTP API server and handlers for the gallery.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptgallery/gallery-server/internal/http/response"
	"github.com/promptgallery/gallery-server/internal/ratelimit"
	"github.com/promptgallery/gallery-server/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// AuthLimiter guards register and login; PublicLimiter guards the
	// anonymous engagement counters. Either may be nil to disable limiting.
	AuthLimiter   *ratelimit.KeyedRateLimiter
	PublicLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store         store.Store
	services      *Services
	router        *chi.Mux
	api           huma.API
	logger        *slog.Logger
	authLimiter   *ratelimit.KeyedRateLimiter
	publicLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(recoverer(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", logger)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed", logger)
	})

	humaConfig := huma.DefaultConfig("Prompt Gallery API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	RegisterErrorHandler(logger)

	s := &Server{
		store:         st,
		services:      services,
		router:        router,
		api:           humachi.New(router, humaConfig),
		logger:        logger,
		authLimiter:   opts.AuthLimiter,
		publicLimiter: opts.PublicLimiter,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerTagRoutes()
	s.registerImageRoutes()
	s.registerPostRoutes()
	s.registerUploadRoutes()
	s.registerAdminRoutes()
}
