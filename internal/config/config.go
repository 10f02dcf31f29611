// Package config loads process settings from the environment and provider
// endpoints from a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"domain-metrics/pkg/log"
)

// Config holds the process-level settings.
type Config struct {
	Port          string
	LogLevel      log.Level
	LogFormat     string
	ProvidersPath string
	FetchTimeout  time.Duration
	SessionTTL    time.Duration
	QuotaLimit    int
	QuotaWindow   time.Duration
}

// Defaults used when a variable is unset.
const (
	DefaultPort          = "3000"
	DefaultLogFormat     = "json"
	DefaultProvidersPath = "config/providers.yaml"
	DefaultFetchTimeout  = 30 * time.Second
	DefaultSessionTTL    = 30 * time.Minute
	DefaultQuotaLimit    = 5
	DefaultQuotaWindow   = 24 * time.Hour
)

// FromEnv reads the configuration through getenv (os.Getenv in production).
// Malformed values fall back to their default and are reported in warnings
// so the caller can log them once the logger exists.
func FromEnv(getenv func(string) string) (Config, []string) {
	var warnings []string
	warn := func(key, value string, def any) {
		warnings = append(warnings, fmt.Sprintf("invalid %s=%q, using %v", key, value, def))
	}

	cfg := Config{
		Port:          stringOr(getenv("PORT"), DefaultPort),
		LogFormat:     strings.ToLower(stringOr(getenv("LOG_FORMAT"), DefaultLogFormat)),
		ProvidersPath: stringOr(getenv("PROVIDERS_CONFIG"), DefaultProvidersPath),
		LogLevel:      log.Info,
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			warn("LOG_LEVEL", v, cfg.LogLevel)
		}
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		warn("LOG_FORMAT", cfg.LogFormat, DefaultLogFormat)
		cfg.LogFormat = DefaultLogFormat
	}

	cfg.FetchTimeout = durationOr(getenv, "FETCH_TIMEOUT_SECONDS", time.Second, DefaultFetchTimeout, warn)
	cfg.SessionTTL = durationOr(getenv, "SESSION_TTL_MINUTES", time.Minute, DefaultSessionTTL, warn)
	cfg.QuotaWindow = durationOr(getenv, "QUOTA_WINDOW_HOURS", time.Hour, DefaultQuotaWindow, warn)

	cfg.QuotaLimit = DefaultQuotaLimit
	if v := getenv("QUOTA_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			warn("QUOTA_LIMIT", v, DefaultQuotaLimit)
		} else {
			cfg.QuotaLimit = n
		}
	}

	return cfg, warnings
}

// Load is FromEnv over the process environment.
func Load() (Config, []string) {
	return FromEnv(os.Getenv)
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func durationOr(getenv func(string) string, key string, unit, def time.Duration, warn func(string, string, any)) time.Duration {
	v := getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		warn(key, v, def)
		return def
	}
	return time.Duration(n) * unit
}
