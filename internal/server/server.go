// Package server exposes the bfhl dispatcher and the health check over HTTP
// using the Gin framework.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edgard/bfhl/internal/bfhl"
	"github.com/edgard/bfhl/internal/config"
	"github.com/edgard/bfhl/internal/database"
	"github.com/edgard/bfhl/internal/logger"
)

// Dispatcher runs a parsed request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req bfhl.Request) (any, error)
}

// Recorder persists the outcome of a request.
type Recorder interface {
	SaveRequest(ctx context.Context, record *database.RequestRecord) error
}

// Server is the HTTP front end of the service.
type Server struct {
	cfg        *config.Config
	log        *slog.Logger
	dispatcher Dispatcher
	recorder   Recorder
	engine     *gin.Engine
}

// New creates a Server. recorder may be nil to disable auditing.
func New(cfg *config.Config, dispatcher Dispatcher, recorder Recorder, log *slog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		log:        log.With("component", "http_server"),
		dispatcher: dispatcher,
		recorder:   recorder,
	}

	s.engine = gin.New()
	s.engine.Use(logger.Middleware(s.log))
	s.engine.Use(gin.CustomRecovery(s.recover))
	s.registerRoutes()

	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/bfhl", s.handleBFHL)
}

// Run listens on the configured port until ctx is cancelled, then shuts the
// server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server starting", "port", s.cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", "timeout", s.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

func (s *Server) recover(c *gin.Context, recovered any) {
	s.log.ErrorContext(c.Request.Context(), "Recovered from panic", "panic", recovered, "request_id", logger.RequestID(c))
	c.AbortWithStatusJSON(http.StatusInternalServerError, failure())
}
