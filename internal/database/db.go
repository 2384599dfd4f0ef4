// Package database persists request audit records in SQLite.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/bfhl/internal/config"
	"github.com/edgard/bfhl/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// Open connects to the audit database at cfg.Path and migrates it to the
// latest schema. Every pooled connection runs in WAL mode with a busy
// timeout, so concurrent request handlers wait for the write lock instead of
// failing with SQLITE_BUSY.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("audit database path is empty")
	}
	if cfg.MaxOpenConns < 1 {
		cfg.MaxOpenConns = 1
	}
	log = log.With("component", "database")

	db, err := sqlx.ConnectContext(ctx, "sqlite", DSN(cfg.Path, cfg.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	version, err := migrateUp(db.DB, cfg.Path, log)
	if err != nil {
		Close(db, log)
		return nil, err
	}

	log.Info("Audit database ready",
		"path", cfg.Path,
		"schema_version", version,
		"max_open_conns", cfg.MaxOpenConns,
		"busy_timeout", cfg.BusyTimeout)
	return db, nil
}

// Close closes db, logging any error. A nil db is ignored.
func Close(db *sqlx.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close audit database", "error", err)
		return
	}
	log.Info("Audit database closed")
}

// DSN appends the connection pragmas to path, keeping any query parameters
// already present in it.
func DSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Set("_txlock", "immediate")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

func migrateUp(db *sql.DB, path string, log *slog.Logger) (uint, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return 0, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	target, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, migrationName(path), target)
	if err != nil {
		return 0, fmt.Errorf("failed to create migrator: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("Audit schema already up to date")
	case err != nil:
		return 0, fmt.Errorf("failed to migrate audit schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read audit schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("audit schema version %d is dirty", version)
	}
	return version, nil
}

// migrationName is the bare file name of a path or file: URI, used to label
// the database in migration errors.
func migrationName(path string) string {
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	return filepath.Base(path)
}
