package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Deck     DeckConfig     `mapstructure:"deck" validate:"required"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver selects between PostgreSQL (pgx) and the embedded SQLite driver,
// the latter being meant for local development.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=pgx sqlite"`
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// DeckConfig tunes the daily deck builder. The defaults reproduce the
// exam-preparation policy; changing them is mostly useful for experiments.
type DeckConfig struct {
	Size               int           `mapstructure:"size" validate:"required,gt=0,lte=200"`
	RecentMistakes     int           `mapstructure:"recent_mistakes" validate:"gte=0"`
	StaleChecks        int           `mapstructure:"stale_checks" validate:"gte=0"`
	StaleAfter         time.Duration `mapstructure:"stale_after" validate:"gt=0"`
	WeakTopicThreshold float64       `mapstructure:"weak_topic_threshold" validate:"gte=0,lte=100"`
}

// TracingConfig controls OpenTelemetry export. With an empty Endpoint spans
// are written to stdout.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name" validate:"required_if=Enabled true"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}
