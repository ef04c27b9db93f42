package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsValidateWithSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.Feed.APIKey = "key"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "nonsense"
	cfg.Redis.Addr = ""
	cfg.Slip.MaxWager = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"unknown mode", "redis: addr", "slip: max_wager", "feed: api_key"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
mode = "serve"

[server]
port = 9090

[pipeline]
refresh_interval = "30s"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ODDSLIP_SERVER_PORT", "7070")
	t.Setenv("ODDSLIP_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("ODDSLIP_FEED_SPORTS", "icehockey_nhl, baseball_mlb")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != "serve" {
		t.Errorf("mode = %q, want serve", cfg.Mode)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, env override must win over the file", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Pipeline.RefreshInterval.Duration != 30*time.Second {
		t.Errorf("refresh_interval = %v, want 30s", cfg.Pipeline.RefreshInterval.Duration)
	}
	if len(cfg.Feed.Sports) != 2 || cfg.Feed.Sports[1] != "baseball_mlb" {
		t.Errorf("sports = %v, want trimmed two-element list", cfg.Feed.Sports)
	}
	// Untouched sections keep their defaults.
	if cfg.Database.Port != 5432 {
		t.Errorf("database port = %d, want default 5432", cfg.Database.Port)
	}
}

func TestRedactedConfigHidesSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.Database.Password = "hunter2"
	cfg.Feed.APIKey = "feed-key"
	cfg.Sportsbook.APIKey = "book-key"
	cfg.Notify.TelegramToken = "tg-token"

	red := RedactedConfig(&cfg)
	for name, got := range map[string]string{
		"database password": red.Database.Password,
		"feed api key":      red.Feed.APIKey,
		"sportsbook key":    red.Sportsbook.APIKey,
		"telegram token":    red.Notify.TelegramToken,
	} {
		if got != "***" {
			t.Errorf("%s not redacted: %q", name, got)
		}
	}
	if cfg.Database.Password != "hunter2" {
		t.Error("original config mutated")
	}

	red.Feed.Sports[0] = "mutated"
	if cfg.Feed.Sports[0] == "mutated" {
		t.Error("redacted copy shares slice storage with the original")
	}
}
