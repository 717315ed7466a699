package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from NOVELGRAB_* environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, envKey string) {
		if *dst != "" {
			return
		}
		*dst = strings.TrimSpace(os.Getenv(envKey))
	}
	setString(&cfg.Query, "NOVELGRAB_QUERY")
	setString(&cfg.SearchURL, "NOVELGRAB_SEARCH_URL")
	setString(&cfg.SourceHost, "NOVELGRAB_SOURCE_HOST")
	setString(&cfg.MirrorHost, "NOVELGRAB_MIRROR_HOST")
	setString(&cfg.Encoding, "NOVELGRAB_ENCODING")
	setString(&cfg.UserAgent, "NOVELGRAB_USER_AGENT")
	setString(&cfg.OutputDir, "NOVELGRAB_OUTPUT_DIR")
	setString(&cfg.LogFile, "NOVELGRAB_LOG_FILE")

	if cfg.Timeout == 0 {
		if s := os.Getenv("NOVELGRAB_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.Timeout = d
			}
		}
	}
	if cfg.MaxAttempts == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("NOVELGRAB_MAX_ATTEMPTS"))); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}
	if cfg.RateLimitPerSecond == 0 {
		if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv("NOVELGRAB_RATE")), 64); err == nil && f > 0 {
			cfg.RateLimitPerSecond = f
		}
	}

	// Booleans
	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.SSLVerify, "NOVELGRAB_SSL_VERIFY")
	setBool(&cfg.AllowEmptyChapters, "NOVELGRAB_ALLOW_EMPTY")
	setBool(&cfg.Yes, "NOVELGRAB_YES")
	setBool(&cfg.Verbose, "NOVELGRAB_VERBOSE")
}
