// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/proofofhustle/api/internal/config"
	"github.com/proofofhustle/api/internal/middleware"
)

type Config struct {
	Server config.ServerConfig
	CORS   config.CORSConfig
	Logger *slog.Logger

	IsProduction bool
}

// Server wraps the chi router with lifecycle management. Routes are
// mounted onto Router() before Start is called.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	logger     *slog.Logger
}

func New(cfg Config) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.IsProduction))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Timeout(cfg.Server.WriteTimeout))

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		router: r,
		logger: cfg.Logger,
	}
}

func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests. drainDelay gives load balancers a
// beat to stop routing new traffic before the listener closes.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if drainDelay > 0 {
		s.logger.Info("draining before shutdown", "delay", drainDelay)

		select {
		case <-time.After(drainDelay):
		case <-ctx.Done():
		}
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
