// Package config loads the service configuration from defaults, an optional
// YAML file and the environment, and validates it once at startup.
package config

import "time"

// Config holds every setting the service reads at startup. It is built once
// by Load and shared read-only afterwards.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port              int           `mapstructure:"port"                validate:"min=1,max=65535"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"min=1s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"        validate:"min=1s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"       validate:"min=1s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"        validate:"min=1s"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"    validate:"min=1s,max=5m"`
}

// IdentityConfig holds the identity echoed in every successful response.
type IdentityConfig struct {
	OfficialEmail string `mapstructure:"official_email" validate:"omitempty,email"`
}

// GeminiConfig configures the text-generation client. Without an APIKey the
// AI operation is unavailable and the numeric ones keep working.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	ModelName   string        `mapstructure:"model_name"  validate:"required"`
	BaseURL     string        `mapstructure:"base_url"    validate:"omitempty,url"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=2m"`
	MaxRetries  int           `mapstructure:"max_retries" validate:"min=0,max=5"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" validate:"min=0,max=30s"`
}

// LoggerConfig configures the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig configures the audit database. An empty Path disables it.
type DatabaseConfig struct {
	Path         string        `mapstructure:"path"`
	BusyTimeout  time.Duration `mapstructure:"busy_timeout"   validate:"min=0,max=1m"`
	MaxOpenConns int           `mapstructure:"max_open_conns" validate:"min=1,max=64"`
}

// AuditConfig controls how long request audit records are kept.
type AuditConfig struct {
	Retention time.Duration `mapstructure:"retention" validate:"min=1m"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}
