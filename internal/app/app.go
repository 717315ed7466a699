package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/novelgrab/internal/chapter"
	"github.com/hyperifyio/novelgrab/internal/extract"
	"github.com/hyperifyio/novelgrab/internal/fetch"
	"github.com/hyperifyio/novelgrab/internal/legacy"
	"github.com/hyperifyio/novelgrab/internal/search"
	"github.com/hyperifyio/novelgrab/internal/toc"
)

// Prompter is the interactive surface the orchestrator talks to.
type Prompter interface {
	Query() (string, error)
	ConfirmDownload(title, author string) (bool, error)
}

// Report describes a finished run.
type Report struct {
	Title    string
	Author   string
	Path     string
	Chapters int
}

type App struct {
	cfg      Config
	search   *search.Site
	lister   *toc.Lister
	chapters *chapter.Fetcher
	prompter Prompter
	progress ProgressFunc
}

// Option customizes App construction.
type Option func(*appOptions)

type appOptions struct {
	httpClient *http.Client
	prompter   Prompter
	progress   ProgressFunc
}

// WithHTTPClient replaces the default transport, e.g. with a fixture server's.
func WithHTTPClient(c *http.Client) Option {
	return func(o *appOptions) { o.httpClient = c }
}

// WithPrompter attaches an interactive prompter. Without one the run never
// asks for confirmation.
func WithPrompter(p Prompter) Option {
	return func(o *appOptions) { o.prompter = p }
}

// WithProgress sets the callback invoked after each chapter is written.
func WithProgress(fn ProgressFunc) Option {
	return func(o *appOptions) { o.progress = fn }
}

// New builds the transport client and the three stages. It performs no
// network activity.
func New(cfg Config, opts ...Option) (*App, error) {
	cfg = cfg.WithDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = NewHTTPClient(cfg.SSLVerify, cfg.Timeout)
	}

	client, err := fetch.New(fetch.Options{
		HTTPClient:         o.httpClient,
		UserAgent:          cfg.UserAgent,
		Headers:            cfg.Headers,
		MaxAttempts:        cfg.MaxAttempts,
		PerRequestTimeout:  cfg.Timeout,
		RedirectMaxHops:    5,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
	})
	if err != nil {
		return nil, err
	}
	codec, err := legacy.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	patterns, err := extract.NewPatterns(cfg.SourceHost)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg: cfg,
		search: &search.Site{
			Client:     client,
			SearchURL:  cfg.SearchURL,
			SourceHost: cfg.SourceHost,
			MirrorHost: cfg.MirrorHost,
			Codec:      codec,
			Patterns:   patterns,
		},
		lister: &toc.Lister{
			Client:     client,
			SourceHost: cfg.SourceHost,
			MirrorHost: cfg.MirrorHost,
			Patterns:   patterns,
		},
		chapters: &chapter.Fetcher{
			Client:   client,
			Codec:    codec,
			Patterns: patterns,
		},
		prompter: o.prompter,
		progress: o.progress,
	}
	log.Debug().Str("search", cfg.SearchURL).Str("mirror", cfg.MirrorHost).Str("encoding", codec.Name()).
		Bool("sslVerify", cfg.SSLVerify).Dur("timeout", cfg.Timeout).Msg("app configured")
	return a, nil
}

// Run searches, confirms, lists and downloads every chapter in order,
// appending each to <title>.txt. On error the partially written file is left
// on disk.
func (a *App) Run(ctx context.Context) (rep Report, err error) {
	query := strings.TrimSpace(a.cfg.Query)
	if query == "" && a.prompter != nil {
		q, perr := a.prompter.Query()
		if perr != nil {
			return rep, fmt.Errorf("read query: %w", perr)
		}
		query = strings.TrimSpace(q)
	}
	if query == "" {
		return rep, ErrEmptyQuery
	}

	// 1) Search
	res, err := a.search.Search(ctx, query)
	if err != nil {
		return rep, fmt.Errorf("search: %w", err)
	}
	if res.DocumentLocation == "" {
		return rep, &ExtractionError{Stage: "search", URL: a.cfg.SearchURL, Detail: fmt.Sprintf("no result for %q", query)}
	}
	rep.Title, rep.Author = res.Title, res.Author
	log.Info().Str("title", res.Title).Str("author", res.Author).Str("url", res.DocumentLocation).Msg("search hit")

	// 2) Confirm
	if !a.cfg.Yes && a.prompter != nil {
		ok, perr := a.prompter.ConfirmDownload(res.Title, res.Author)
		if perr != nil {
			return rep, fmt.Errorf("confirm: %w", perr)
		}
		if !ok {
			return rep, ErrDeclined
		}
	}

	// 3) Enumerate
	urls, err := a.lister.List(ctx, res.DocumentLocation)
	if err != nil {
		return rep, fmt.Errorf("list chapters: %w", err)
	}
	if len(urls) == 0 {
		return rep, &ExtractionError{Stage: "enumerate", URL: res.DocumentLocation, Detail: "no chapters found"}
	}
	log.Info().Int("chapters", len(urls)).Msg("chapter list loaded")

	// 4) Fetch, clean and append, one chapter at a time
	rep.Path = outputPath(a.cfg.OutputDir, res.Title)
	f, err := openOutput(rep.Path)
	if err != nil {
		return rep, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FileIOError{Path: rep.Path, Err: cerr}
		}
	}()

	total := len(urls)
	for i, u := range urls {
		text, found, ferr := a.chapters.Fetch(ctx, u)
		if ferr != nil {
			return rep, fmt.Errorf("chapter %d/%d: %w", i+1, total, ferr)
		}
		if text == "" {
			detail := "empty chapter content"
			if !found {
				detail = "no content markers"
			}
			if !a.cfg.AllowEmptyChapters {
				return rep, &ExtractionError{Stage: "chapter", URL: u, Detail: fmt.Sprintf("chapter %d/%d: %s", i+1, total, detail)}
			}
			log.Warn().Str("url", u).Int("chapter", i+1).Str("reason", detail).Msg("empty chapter written")
		}
		if _, werr := io.WriteString(f, text); werr != nil {
			return rep, &FileIOError{Path: rep.Path, Err: werr}
		}
		rep.Chapters = i + 1
		log.Debug().Int("done", i+1).Int("total", total).Str("progress", FormatPercent(i+1, total)).Msg("chapter written")
		if a.progress != nil {
			a.progress(i+1, total)
		}
	}
	log.Info().Str("path", rep.Path).Int("chapters", rep.Chapters).Msg("download complete")
	return rep, nil
}

// IsSearchMiss reports whether err means the search found nothing.
func IsSearchMiss(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee) && ee.Stage == "search"
}
