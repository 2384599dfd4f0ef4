// Package main contains the entrypoint for the bfhl HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/edgard/bfhl/internal/app"
	"github.com/edgard/bfhl/internal/app/tasks"
	"github.com/edgard/bfhl/internal/bfhl"
	"github.com/edgard/bfhl/internal/config"
	"github.com/edgard/bfhl/internal/database"
	"github.com/edgard/bfhl/internal/gemini"
	"github.com/edgard/bfhl/internal/logger"
	"github.com/edgard/bfhl/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes all components (config, logger, audit store, Gemini client,
// dispatcher, HTTP server, scheduler), blocks until shutdown and returns an
// exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	envFile := flag.String("env-file", ".env", "Path to an optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	var (
		store    database.Store
		recorder server.Recorder
	)
	if cfg.AuditEnabled() {
		db, err := database.Open(ctx, cfg.Database, log)
		if err != nil {
			log.Error("Failed to open audit database", "path", cfg.Database.Path, "error", err)
			return 1
		}
		defer database.Close(db, log)
		store = database.NewStore(db, log)
		recorder = store
	} else {
		log.Info("Request audit disabled")
	}

	var answerer bfhl.Answerer
	if cfg.AIEnabled() {
		gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
		if err != nil {
			log.Error("Failed to initialize Gemini client", "error", err)
			return 1
		}
		answerer = gemClient
	} else {
		log.Warn("No Gemini API key configured, AI requests will fail")
	}

	gin.SetMode(gin.ReleaseMode)
	dispatcher := bfhl.NewDispatcher(answerer, log)
	srv := server.New(cfg, dispatcher, recorder, log)

	var sched *app.Scheduler
	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store, Config: cfg})
	if len(taskMap) > 0 {
		if sched, err = app.NewScheduler(log, &cfg.Scheduler, taskMap); err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return 1
		}
	}

	runErr := app.New(log, srv, sched).Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Service stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Service exited cleanly.")
	return 0
}
