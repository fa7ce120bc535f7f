package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"insightly/internal/config"
	"insightly/internal/export"
	"insightly/internal/logger"
	"insightly/internal/session"
)

const defaultRequestTimeout = 180 * time.Second

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	sessions   *session.Registry
	generator  session.BatchGenerator
	email      export.EmailOptions
	config     config.Server
	log        *slog.Logger
}

// New creates a new HTTP server instance
func New(gen session.BatchGenerator, email export.EmailOptions, cfg config.Server) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		sessions:  session.NewRegistry(),
		generator: gen,
		email:     email,
		config:    cfg,
		log:       logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)

	// Generation makes two model calls, so the request budget follows the write timeout
	timeout := s.config.WriteTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	s.router.Use(middleware.Timeout(timeout))

	if s.config.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Use(noCache)

		r.Get("/topics", s.handleTopics)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)

			r.Route("/{sid}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/current", s.handleCurrentBatch)

				r.Route("/batches", func(r chi.Router) {
					r.Get("/", s.handleListBatches)
					r.Post("/", s.handleGenerateBatch)
					r.Get("/{index}", s.handleGetBatch)
					r.Delete("/{index}", s.handleDeleteBatch)
					r.Post("/{index}/select", s.handleSelectBatch)
					r.Get("/{index}/{format}", s.handleExportBatch)
				})
			})
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Sessions returns the session registry (useful for testing)
func (s *Server) Sessions() *session.Registry {
	return s.sessions
}
