package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/metrics"
)

// ServerConfig carries the HTTP listener settings.
type ServerConfig struct {
	ListenAddress  string
	AllowedOrigin  string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server is the HTTP front of the classification pipeline.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer wires the router and middleware around the handler.
func NewServer(cfg ServerConfig, handler *Handler, logger *zap.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 45 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 * 1024
	}

	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(maxBodySize(cfg.MaxBodyBytes))
	r.Use(cors(cfg.AllowedOrigin))

	r.Post("/analyze", handler.Analyze)
	r.Get("/health", handler.Health)
	r.Get("/cache/{keyword}", handler.CacheLookup)
	r.Handle("/metrics", metrics.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.ListenAddress,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("address", s.httpServer.Addr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
