package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected default port %d", cfg.HTTPPort)
	}
	if cfg.SuccessTTL != time.Hour || cfg.ErrorTTL != 10*time.Minute {
		t.Fatalf("unexpected default TTLs: %v / %v", cfg.SuccessTTL, cfg.ErrorTTL)
	}
	if cfg.RedisTimeout != 5*time.Second || cfg.RedisBackoff != 30*time.Second {
		t.Fatalf("unexpected redis defaults: %v / %v", cfg.RedisTimeout, cfg.RedisBackoff)
	}
	if cfg.RateLimitPerMinute != 20 {
		t.Fatalf("unexpected rate limit default %d", cfg.RateLimitPerMinute)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
service:
  id: embed-service-test
  http_port: 9000
dependencies:
  redis_url: redis://file-host:6379/0
embed:
  allowed_providers:
    - vimeo.com
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("REDIS_URL", "redis://env-host:6379/0")
	t.Setenv("SUCCESS_TTL_SECONDS", "7200")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceID != "embed-service-test" || cfg.HTTPPort != 9000 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.RedisURL != "redis://env-host:6379/0" {
		t.Fatalf("env must override file, got %q", cfg.RedisURL)
	}
	if cfg.SuccessTTL != 2*time.Hour {
		t.Fatalf("env ttl not applied: %v", cfg.SuccessTTL)
	}
	if cfg.RateLimitPerMinute != 5 {
		t.Fatalf("env rate limit not applied: %d", cfg.RateLimitPerMinute)
	}
	if len(cfg.AllowedProviders) != 1 || cfg.AllowedProviders[0] != "vimeo.com" {
		t.Fatalf("allow-list not applied: %v", cfg.AllowedProviders)
	}
}

func TestLoadConfigRejectsInvertedTTLs(t *testing.T) {
	t.Setenv("SUCCESS_TTL_SECONDS", "60")
	t.Setenv("ERROR_TTL_SECONDS", "600")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error when error TTL exceeds success TTL")
	}
}
