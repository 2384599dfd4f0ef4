package config

import "time"

// Default values for configuration
const (
	DefaultServerPort              = 3000
	DefaultServerReadHeaderTimeout = 10 * time.Second
	DefaultServerReadTimeout       = 30 * time.Second
	DefaultServerWriteTimeout      = 30 * time.Second
	DefaultServerIdleTimeout       = 2 * time.Minute
	DefaultServerShutdownTimeout   = 15 * time.Second

	DefaultGeminiModelName   = "gemini-2.0-flash"
	DefaultGeminiTemperature = 0.0
	DefaultGeminiTimeout     = 10 * time.Second // bounded wait on the remote call
	DefaultGeminiMaxRetries  = 0                // single attempt unless configured
	DefaultGeminiRetryDelay  = time.Second

	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDatabasePath         = "bfhl.db"
	DefaultDatabaseBusyTimeout  = 5 * time.Second
	DefaultDatabaseMaxOpenConns = 4
	DefaultAuditRetention       = 7 * 24 * time.Hour

	// Cron expressions include a leading seconds field.
	DefaultAuditRetentionSchedule = "0 0 * * * *"
	DefaultSQLMaintenanceSchedule = "0 30 3 * * *"
)

// Names of the scheduled tasks known to the service.
const (
	TaskAuditRetention = "audit_retention"
	TaskSQLMaintenance = "sql_maintenance"
)
