package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store defines the audit database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveRequest inserts an audit record, assigning ID and CreatedAt when unset.
	SaveRequest(ctx context.Context, record *RequestRecord) error

	// CountRequests returns the number of stored audit records.
	CountRequests(ctx context.Context) (int64, error)

	// PruneRequestsBefore deletes audit records created before the cutoff and
	// returns how many were removed.
	PruneRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance compacts the database and checkpoints its WAL.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveRequest(ctx context.Context, record *RequestRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil request record")
	}
	if record.Status == 0 {
		return fmt.Errorf("request record must have a non-zero status")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().UTC().UnixMilli()
	}

	const query = `INSERT INTO request_log (id, request_id, operation, status, error_kind, duration_ms, created_at)
		VALUES (:id, :request_id, :operation, :status, :error_kind, :duration_ms, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, record); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save request record", "id", record.ID, "error", err)
		return fmt.Errorf("failed to save request record: %w", err)
	}
	return nil
}

func (s *sqlxStore) CountRequests(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM request_log`); err != nil {
		return 0, fmt.Errorf("failed to count request records: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) PruneRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM request_log WHERE created_at < ?`, cutoff.UTC().UnixMilli())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to prune request records", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune request records: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}

	s.logger.DebugContext(ctx, "Pruned request records", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

// RunSQLMaintenance compacts the database file after audit records have
// been pruned, folds the WAL back into it and refreshes query planner stats.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, stmt := range []string{
		"VACUUM",
		"PRAGMA wal_checkpoint(TRUNCATE)",
		"PRAGMA optimize",
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Audit database maintenance failed", "statement", stmt, "error", err)
			return fmt.Errorf("%s failed: %w", stmt, err)
		}
	}

	s.logger.DebugContext(ctx, "Audit database maintenance completed")
	return nil
}
