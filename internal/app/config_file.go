package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
	Query string `yaml:"query" json:"query"`

	Site struct {
		SearchURL  string `yaml:"searchURL" json:"searchURL"`
		SourceHost string `yaml:"sourceHost" json:"sourceHost"`
		MirrorHost string `yaml:"mirrorHost" json:"mirrorHost"`
		Encoding   string `yaml:"encoding" json:"encoding"`
	} `yaml:"site" json:"site"`

	HTTP struct {
		UserAgent string            `yaml:"userAgent" json:"userAgent"`
		Headers   map[string]string `yaml:"headers" json:"headers"`
		SSLVerify *bool             `yaml:"sslVerify" json:"sslVerify"`
		Timeout   time.Duration     `yaml:"timeout" json:"timeout"`
		Attempts  int               `yaml:"attempts" json:"attempts"`
		Rate      float64           `yaml:"rate" json:"rate"`
	} `yaml:"http" json:"http"`

	Output struct {
		Dir string `yaml:"dir" json:"dir"`
	} `yaml:"output" json:"output"`

	AllowEmptyChapters bool   `yaml:"allowEmptyChapters" json:"allowEmptyChapters"`
	Yes                bool   `yaml:"yes" json:"yes"`
	Verbose            bool   `yaml:"verbose" json:"verbose"`
	LogFile            string `yaml:"logFile" json:"logFile"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are still unset. Flags are applied first, so explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Query == "" { cfg.Query = fc.Query }

	if cfg.SearchURL == "" { cfg.SearchURL = fc.Site.SearchURL }
	if cfg.SourceHost == "" { cfg.SourceHost = fc.Site.SourceHost }
	if cfg.MirrorHost == "" { cfg.MirrorHost = fc.Site.MirrorHost }
	if cfg.Encoding == "" { cfg.Encoding = fc.Site.Encoding }

	if cfg.UserAgent == "" { cfg.UserAgent = fc.HTTP.UserAgent }
	if len(fc.HTTP.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(fc.HTTP.Headers))
		}
		for k, v := range fc.HTTP.Headers {
			if _, ok := cfg.Headers[k]; !ok {
				cfg.Headers[k] = v
			}
		}
	}
	if !cfg.SSLVerify && fc.HTTP.SSLVerify != nil { cfg.SSLVerify = *fc.HTTP.SSLVerify }
	if cfg.Timeout == 0 { cfg.Timeout = fc.HTTP.Timeout }
	if cfg.MaxAttempts == 0 { cfg.MaxAttempts = fc.HTTP.Attempts }
	if cfg.RateLimitPerSecond == 0 { cfg.RateLimitPerSecond = fc.HTTP.Rate }

	if cfg.OutputDir == "" { cfg.OutputDir = fc.Output.Dir }

	if !cfg.AllowEmptyChapters && fc.AllowEmptyChapters { cfg.AllowEmptyChapters = true }
	if !cfg.Yes && fc.Yes { cfg.Yes = true }
	if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }
	if cfg.LogFile == "" { cfg.LogFile = fc.LogFile }
}

// ValidateConfig performs minimal schema validation for required settings.
// It expects a config that already went through WithDefaults.
func ValidateConfig(cfg Config) error {
	u, err := url.Parse(strings.TrimSpace(cfg.SearchURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: search url must be an absolute http(s) URL, got %q", cfg.SearchURL)
	}
	if strings.TrimSpace(cfg.SourceHost) == "" || strings.TrimSpace(cfg.MirrorHost) == "" {
		return errors.New("config: source and mirror hosts are required")
	}
	if cfg.Timeout < 0 || cfg.MaxAttempts < 0 || cfg.RateLimitPerSecond < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output dir is required")
	}
	return nil
}
