package app

import (
	"time"

	"github.com/hyperifyio/novelgrab/internal/fetch"
	"github.com/hyperifyio/novelgrab/internal/legacy"
)

// Defaults for the site this tool targets.
const (
	DefaultSearchURL  = "https://cooolr.online/modules/article/search.php"
	DefaultSourceHost = "www.69shuba.com"
	DefaultMirrorHost = "cooolr.online"
	DefaultTimeout    = 60 * time.Second
	DefaultOutputDir  = "."
)

// Config holds runtime configuration for the application. Zero values mean
// "unset" until WithDefaults fills them.
type Config struct {
	Query string

	// Site
	SearchURL  string
	SourceHost string
	MirrorHost string
	Encoding   string

	// Transport
	UserAgent          string
	Headers            map[string]string
	SSLVerify          bool
	Timeout            time.Duration
	MaxAttempts        int
	RateLimitPerSecond float64

	// Output
	OutputDir string

	// Behavior
	AllowEmptyChapters bool
	Yes                bool
	Verbose            bool
	LogFile            string
}

// WithDefaults returns a copy of cfg with unset fields filled in.
func (cfg Config) WithDefaults() Config {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.SourceHost == "" {
		cfg.SourceHost = DefaultSourceHost
	}
	if cfg.MirrorHost == "" {
		cfg.MirrorHost = DefaultMirrorHost
	}
	if cfg.Encoding == "" {
		cfg.Encoding = legacy.DefaultLabel
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetch.DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	return cfg
}
