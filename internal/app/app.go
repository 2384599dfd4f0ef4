// Package app wires the service components together and manages their
// lifecycle: the HTTP server and the maintenance scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Runner is a long-running component that stops when ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// App owns the running components of the service.
type App struct {
	logger    *slog.Logger
	server    Runner
	scheduler *Scheduler
}

// New creates an App. scheduler may be nil when no tasks are registered.
func New(logger *slog.Logger, server Runner, scheduler *Scheduler) *App {
	return &App{
		logger:    logger.With("component", "app"),
		server:    server,
		scheduler: scheduler,
	}
}

// Run starts the HTTP server and the scheduler and blocks until ctx is
// cancelled or one of them fails. Cancellation is not reported as an error.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting service...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Run(gCtx); err != nil {
			return err
		}
		if ctx.Err() == nil && gCtx.Err() == nil {
			return fmt.Errorf("http server stopped unexpectedly")
		}
		return nil
	})

	if a.scheduler != nil {
		g.Go(func() error {
			a.logger.Info("Starting scheduler...")
			if _, err := a.scheduler.Start(gCtx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			a.logger.Info("Shutdown signal received, stopping scheduler...")
			if err := a.scheduler.Stop(); err != nil {
				a.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	a.logger.Info("Service running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Service stopped due to error", "error", err)
		return err
	}

	a.logger.Info("Service stopped gracefully.")
	return nil
}
