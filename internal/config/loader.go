package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. BFHL_SERVER_PORT.
const EnvPrefix = "BFHL"

// ErrConfiguration wraps every error returned by Load.
var ErrConfiguration = errors.New("configuration error")

// legacyEnv lists unprefixed variables that are also honoured for
// deployments that only set the short names.
var legacyEnv = map[string]string{
	"server.port":             "PORT",
	"identity.official_email": "OFFICIAL_EMAIL",
	"gemini.api_key":          "GEMINI_API_KEY",
}

// Load reads configuration in order of increasing precedence:
//  1. default values
//  2. the YAML file at path, if it exists (an empty path skips it)
//  3. BFHL_* environment variables and the legacy short names
//
// Variables from the dotenv file at envFile, if it exists, are added to the
// process environment first; variables already set are left untouched.
// The result is validated before it is returned.
func Load(path, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %v", ErrConfiguration, key, err)
		}
	}

	if err := readFile(v, path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks struct-level constraints on the configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// AIEnabled reports whether a Gemini API key is configured.
func (c *Config) AIEnabled() bool {
	return c.Gemini.APIKey != ""
}

// AuditEnabled reports whether request audit records are persisted.
func (c *Config) AuditEnabled() bool {
	return c.Database.Path != ""
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	// viper lowercases keys; environment names are conventionally upper case.
	for _, key := range ev.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, ev.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s from env file: %w", name, err)
		}
	}
	return nil
}

func readFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Missing file is fine, defaults and environment still apply.
			return nil
		}
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_header_timeout", DefaultServerReadHeaderTimeout)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultServerIdleTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)

	v.SetDefault("identity.official_email", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", DefaultGeminiModelName)
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.timeout", DefaultGeminiTimeout)
	v.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	v.SetDefault("gemini.retry_delay", DefaultGeminiRetryDelay)

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.busy_timeout", DefaultDatabaseBusyTimeout)
	v.SetDefault("database.max_open_conns", DefaultDatabaseMaxOpenConns)
	v.SetDefault("audit.retention", DefaultAuditRetention)

	v.SetDefault("scheduler.tasks."+TaskAuditRetention+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskAuditRetention+".schedule", DefaultAuditRetentionSchedule)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".schedule", DefaultSQLMaintenanceSchedule)
}
