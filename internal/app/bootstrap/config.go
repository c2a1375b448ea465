package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the embed service.
// It merges file defaults and environment overrides to support both local and
// deployed runs, and is constructed once at startup: nothing deeper in the
// call stack reads the environment.
type Config struct {
	ServiceID string
	HTTPPort  int

	RedisURL     string
	RedisTimeout time.Duration
	RedisBackoff time.Duration

	SuccessTTL      time.Duration
	ErrorTTL        time.Duration
	UpstreamTimeout time.Duration

	AllowedProviders []string

	RateLimitPerMinute int

	MemorySweepInterval time.Duration
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay
// internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		RedisURL string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Embed struct {
		AllowedProviders []string `yaml:"allowed_providers"`
	} `yaml:"embed"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:           "embed-service",
		HTTPPort:            8080,
		RedisTimeout:        5 * time.Second,
		RedisBackoff:        30 * time.Second,
		SuccessTTL:          time.Hour,
		ErrorTTL:            10 * time.Minute,
		UpstreamTimeout:     4 * time.Second,
		RateLimitPerMinute:  20,
		MemorySweepInterval: time.Minute,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Embed.AllowedProviders) > 0 {
			cfg.AllowedProviders = f.Embed.AllowedProviders
		}
	}

	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.AllowedProviders = envCSV("ALLOWED_PROVIDERS", cfg.AllowedProviders)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.RateLimitPerMinute = envInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	cfg.RedisTimeout = time.Duration(envInt("REDIS_TIMEOUT_SECONDS", int(cfg.RedisTimeout.Seconds()))) * time.Second
	cfg.RedisBackoff = time.Duration(envInt("REDIS_BACKOFF_SECONDS", int(cfg.RedisBackoff.Seconds()))) * time.Second
	cfg.SuccessTTL = time.Duration(envInt("SUCCESS_TTL_SECONDS", int(cfg.SuccessTTL.Seconds()))) * time.Second
	cfg.ErrorTTL = time.Duration(envInt("ERROR_TTL_SECONDS", int(cfg.ErrorTTL.Seconds()))) * time.Second
	cfg.UpstreamTimeout = time.Duration(envInt("UPSTREAM_TIMEOUT_SECONDS", int(cfg.UpstreamTimeout.Seconds()))) * time.Second
	cfg.MemorySweepInterval = time.Duration(envInt("MEMORY_SWEEP_SECONDS", int(cfg.MemorySweepInterval.Seconds()))) * time.Second

	if cfg.ErrorTTL > cfg.SuccessTTL {
		return Config{}, fmt.Errorf("ERROR_TTL_SECONDS must not exceed SUCCESS_TTL_SECONDS")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
