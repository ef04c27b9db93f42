package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ODDSLIP_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ODDSLIP_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setBool(&cfg.Server.Enabled, "ODDSLIP_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "ODDSLIP_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ODDSLIP_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIToken, "ODDSLIP_SERVER_API_TOKEN")

	// ── Database ──
	setStr(&cfg.Database.DSN, "ODDSLIP_DATABASE_DSN")
	setStr(&cfg.Database.DSN, "ODDSLIP_DATABASE_URL") // compatibility alias
	setStr(&cfg.Database.Host, "ODDSLIP_DATABASE_HOST")
	setInt(&cfg.Database.Port, "ODDSLIP_DATABASE_PORT")
	setStr(&cfg.Database.Database, "ODDSLIP_DATABASE_NAME")
	setStr(&cfg.Database.User, "ODDSLIP_DATABASE_USER")
	setStr(&cfg.Database.Password, "ODDSLIP_DATABASE_PASSWORD")
	setStr(&cfg.Database.SSLMode, "ODDSLIP_DATABASE_SSL_MODE")
	setInt(&cfg.Database.PoolMaxConns, "ODDSLIP_DATABASE_POOL_MAX_CONNS")
	setInt(&cfg.Database.PoolMinConns, "ODDSLIP_DATABASE_POOL_MIN_CONNS")
	setBool(&cfg.Database.RunMigrations, "ODDSLIP_DATABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "ODDSLIP_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ODDSLIP_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ODDSLIP_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ODDSLIP_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ODDSLIP_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ODDSLIP_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "ODDSLIP_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "ODDSLIP_S3_REGION")
	setStr(&cfg.S3.Bucket, "ODDSLIP_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "ODDSLIP_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "ODDSLIP_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "ODDSLIP_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "ODDSLIP_S3_FORCE_PATH_STYLE")

	// ── Feed ──
	setStr(&cfg.Feed.BaseURL, "ODDSLIP_FEED_BASE_URL")
	setStr(&cfg.Feed.APIKey, "ODDSLIP_FEED_API_KEY")
	setStringSlice(&cfg.Feed.Sports, "ODDSLIP_FEED_SPORTS")
	setStringSlice(&cfg.Feed.Books, "ODDSLIP_FEED_BOOKS")
	setDuration(&cfg.Feed.Timeout, "ODDSLIP_FEED_TIMEOUT")

	// ── Sportsbook ──
	setStr(&cfg.Sportsbook.BaseURL, "ODDSLIP_SPORTSBOOK_BASE_URL")
	setStr(&cfg.Sportsbook.APIKey, "ODDSLIP_SPORTSBOOK_API_KEY")
	setDuration(&cfg.Sportsbook.Timeout, "ODDSLIP_SPORTSBOOK_TIMEOUT")
	setInt(&cfg.Sportsbook.MaxPerMinute, "ODDSLIP_SPORTSBOOK_MAX_PER_MINUTE")

	// ── Pipeline ──
	setBool(&cfg.Pipeline.Enabled, "ODDSLIP_PIPELINE_ENABLED")
	setDuration(&cfg.Pipeline.RefreshInterval, "ODDSLIP_PIPELINE_REFRESH_INTERVAL")
	setDuration(&cfg.Pipeline.ArchiveInterval, "ODDSLIP_PIPELINE_ARCHIVE_INTERVAL")
	setInt(&cfg.Pipeline.ArchiveRetentionDays, "ODDSLIP_PIPELINE_ARCHIVE_RETENTION_DAYS")

	// ── Slip ──
	setInt(&cfg.Slip.MaxLegs, "ODDSLIP_SLIP_MAX_LEGS")
	setDuration(&cfg.Slip.MinStartBuffer, "ODDSLIP_SLIP_MIN_START_BUFFER")
	setFloat64(&cfg.Slip.MaxWager, "ODDSLIP_SLIP_MAX_WAGER")
	setFloat64(&cfg.Slip.DefaultWager, "ODDSLIP_SLIP_DEFAULT_WAGER")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "ODDSLIP_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ODDSLIP_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ODDSLIP_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "ODDSLIP_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "ODDSLIP_MODE")
	setStr(&cfg.LogLevel, "ODDSLIP_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
