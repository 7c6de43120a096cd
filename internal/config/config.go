package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Search   SearchConfig   `yaml:"search"`
	Activity ActivityConfig `yaml:"activity"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SearchConfig holds search engine settings.
type SearchConfig struct {
	// DefaultLimit is used when a caller does not supply a limit.
	DefaultLimit int `yaml:"default_limit" env:"SEARCH_DEFAULT_LIMIT" env-default:"20"`
	// MaxLimit is the hard server-side cap on result page size.
	MaxLimit int `yaml:"max_limit" env:"SEARCH_MAX_LIMIT" env-default:"50"`
	// SuggestionLimit caps autocomplete suggestion lists.
	SuggestionLimit int `yaml:"suggestion_limit" env:"SEARCH_SUGGESTION_LIMIT" env-default:"10"`
	// SnippetMinWords / SnippetMaxWords bound highlighted excerpts.
	SnippetMinWords int `yaml:"snippet_min_words" env:"SEARCH_SNIPPET_MIN_WORDS" env-default:"5"`
	SnippetMaxWords int `yaml:"snippet_max_words" env:"SEARCH_SNIPPET_MAX_WORDS" env-default:"20"`
	// EventLogTimeout bounds the fire-and-forget search_performed write.
	EventLogTimeout time.Duration `yaml:"event_log_timeout" env:"SEARCH_EVENT_LOG_TIMEOUT" env-default:"2s"`
}

// ActivityConfig holds event log and activity feed settings.
type ActivityConfig struct {
	// FeedDefaultLimit / FeedMaxLimit bound activity feed pages.
	FeedDefaultLimit int `yaml:"feed_default_limit" env:"ACTIVITY_FEED_DEFAULT_LIMIT" env-default:"20"`
	FeedMaxLimit     int `yaml:"feed_max_limit"     env:"ACTIVITY_FEED_MAX_LIMIT"     env-default:"100"`
	// MetricsMaxEvents caps the single raw-event fetch behind activity metrics.
	MetricsMaxEvents int `yaml:"metrics_max_events" env:"ACTIVITY_METRICS_MAX_EVENTS" env-default:"10000"`
	// MetricsMaxDays caps the rolling window accepted by activity metrics.
	MetricsMaxDays int `yaml:"metrics_max_days" env:"ACTIVITY_METRICS_MAX_DAYS" env-default:"365"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
