// Package config defines the top-level configuration for the oddslip daemon
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ODDSLIP_* environment variables.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Feed       FeedConfig       `toml:"feed"`
	Sportsbook SportsbookConfig `toml:"sportsbook"`
	Pipeline   PipelineConfig   `toml:"pipeline"`
	Slip       SlipConfig       `toml:"slip"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIToken    string   `toml:"api_token"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for quote archives.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// FeedConfig holds odds-feed provider API parameters.
type FeedConfig struct {
	BaseURL string   `toml:"base_url"`
	APIKey  string   `toml:"api_key"`
	Sports  []string `toml:"sports"`
	Books   []string `toml:"books"`
	Timeout duration `toml:"timeout"`
}

// SportsbookConfig holds wager-submission endpoint credentials.
type SportsbookConfig struct {
	BaseURL      string   `toml:"base_url"`
	APIKey       string   `toml:"api_key"`
	Timeout      duration `toml:"timeout"`
	MaxPerMinute int      `toml:"max_per_minute"`
}

// PipelineConfig holds quote refresh and archival parameters.
type PipelineConfig struct {
	Enabled              bool     `toml:"enabled"`
	RefreshInterval      duration `toml:"refresh_interval"`
	ArchiveInterval      duration `toml:"archive_interval"`
	ArchiveRetentionDays int      `toml:"archive_retention_days"`
}

// SlipConfig holds bet slip limits. Zero values fall back to the slip
// package defaults.
type SlipConfig struct {
	MaxLegs        int      `toml:"max_legs"`
	MinStartBuffer duration `toml:"min_start_buffer"`
	MaxWager       float64  `toml:"max_wager"`
	DefaultWager   float64  `toml:"default_wager"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "oddslip",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "oddslip-archive",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Feed: FeedConfig{
			BaseURL: "https://api.the-odds-feed.example.com/v4",
			Sports:  []string{"basketball_nba", "americanfootball_nfl"},
			Books:   []string{"fanduel", "draftkings", "betmgm"},
			Timeout: duration{15 * time.Second},
		},
		Sportsbook: SportsbookConfig{
			BaseURL:      "https://sportsbook.example.com/api",
			Timeout:      duration{10 * time.Second},
			MaxPerMinute: 10,
		},
		Pipeline: PipelineConfig{
			Enabled:              true,
			RefreshInterval:      duration{time.Minute},
			ArchiveInterval:      duration{6 * time.Hour},
			ArchiveRetentionDays: 30,
		},
		Slip: SlipConfig{
			MaxLegs:        10,
			MinStartBuffer: duration{10 * time.Minute},
			MaxWager:       10000,
			DefaultWager:   10,
		},
		Notify: NotifyConfig{
			Events: []string{"wager_placed", "refresh_failed", "error"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve":   true,
	"refresh": true,
	"archive": true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, refresh, archive, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Database
	if strings.TrimSpace(c.Database.DSN) == "" {
		if c.Database.Host == "" {
			errs = append(errs, "database: host must not be empty (or set database.dsn)")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database: port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.Database == "" {
			errs = append(errs, "database: database must not be empty")
		}
	}
	if c.Database.PoolMaxConns < 1 {
		errs = append(errs, "database: pool_max_conns must be >= 1")
	}
	if c.Database.PoolMinConns < 0 {
		errs = append(errs, "database: pool_min_conns must be >= 0")
	}
	if c.Database.PoolMinConns > c.Database.PoolMaxConns {
		errs = append(errs, "database: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3
	if c.S3.Endpoint == "" {
		errs = append(errs, "s3: endpoint must not be empty")
	}
	if c.S3.Bucket == "" {
		errs = append(errs, "s3: bucket must not be empty")
	}

	// Feed — required whenever the refresh pipeline runs.
	needsFeed := c.Mode == "refresh" || (c.Mode == "full" && c.Pipeline.Enabled)
	if needsFeed {
		if c.Feed.BaseURL == "" {
			errs = append(errs, "feed: base_url must not be empty for mode "+c.Mode)
		}
		if c.Feed.APIKey == "" {
			errs = append(errs, "feed: api_key is required for mode "+c.Mode)
		}
		if len(c.Feed.Sports) == 0 {
			errs = append(errs, "feed: at least one sport must be configured")
		}
	}

	// Sportsbook
	if c.Sportsbook.BaseURL == "" {
		errs = append(errs, "sportsbook: base_url must not be empty")
	}
	if c.Sportsbook.MaxPerMinute < 1 {
		errs = append(errs, "sportsbook: max_per_minute must be >= 1")
	}

	// Pipeline
	if c.Pipeline.Enabled {
		if c.Pipeline.RefreshInterval.Duration < time.Second {
			errs = append(errs, "pipeline: refresh_interval must be at least 1s")
		}
		if c.Pipeline.ArchiveRetentionDays < 1 {
			errs = append(errs, "pipeline: archive_retention_days must be >= 1")
		}
	}

	// Slip
	if c.Slip.MaxLegs < 1 {
		errs = append(errs, "slip: max_legs must be >= 1")
	}
	if c.Slip.MaxWager <= 0 {
		errs = append(errs, "slip: max_wager must be > 0")
	}
	if c.Slip.DefaultWager < 0 || c.Slip.DefaultWager > c.Slip.MaxWager {
		errs = append(errs, "slip: default_wager must be within [0, max_wager]")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
