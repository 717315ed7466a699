package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hyperifyio/novelgrab/internal/app"
	"github.com/hyperifyio/novelgrab/internal/prompt"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitSearchMiss = 3
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath string
		envFile    string
		cfg        app.Config
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Dotenv file loaded before reading NOVELGRAB_* variables")
	flag.StringVar(&cfg.Query, "query", "", "Title to search for (prompted when empty)")
	flag.StringVar(&cfg.SearchURL, "search.url", "", "Search endpoint (default "+app.DefaultSearchURL+")")
	flag.StringVar(&cfg.SourceHost, "site.source", "", "Host used in result and chapter links (default "+app.DefaultSourceHost+")")
	flag.StringVar(&cfg.MirrorHost, "site.mirror", "", "Host substituted for the source host (default "+app.DefaultMirrorHost+")")
	flag.StringVar(&cfg.Encoding, "encoding", "", "Legacy page encoding label (default gbk)")
	flag.StringVar(&cfg.UserAgent, "ua", "", "Override the browser User-Agent")
	flag.BoolVar(&cfg.SSLVerify, "ssl.verify", false, "Verify TLS certificates (the mirror uses a self-issued chain)")
	flag.DurationVar(&cfg.Timeout, "timeout", 0, "Per-request timeout (default 60s)")
	flag.IntVar(&cfg.MaxAttempts, "retries", 0, "Attempts per request including the first (default 1)")
	flag.Float64Var(&cfg.RateLimitPerSecond, "rate", 0, "Maximum requests per second (0 = unlimited)")
	flag.StringVar(&cfg.OutputDir, "out", "", "Directory for <title>.txt (default .)")
	flag.BoolVar(&cfg.AllowEmptyChapters, "allow-empty", false, "Write empty chapters instead of aborting")
	flag.BoolVar(&cfg.Yes, "yes", false, "Skip the download confirmation")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.StringVar(&cfg.LogFile, "log.file", "", "Also write JSON logs to this rotating file")
	flag.Parse()

	if q := strings.TrimSpace(strings.Join(flag.Args(), " ")); cfg.Query == "" && q != "" {
		cfg.Query = q
	}

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg, err := loadConfig(cfg, explicit, configPath, envFile)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(exitUsage)
	}
	closeLog := setupLogging(cfg, os.Stderr)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	interactive := prompt.IsTerminal(os.Stdin)
	err = run(ctx, cfg, prompt.New(os.Stdin, os.Stdout), os.Stdout)
	stop()
	code := exitCode(err)
	if interactive && code != exitUsage {
		prompt.Pause(os.Stdin, os.Stdout, "\nPress Enter to exit.")
	}
	if code != exitOK {
		closeLog()
		os.Exit(code)
	}
}

// flagFields copies the field behind each flag name. The file and env
// overlays only fill zero values, so a flag given explicitly as false or 0
// is restored from these after they run.
var flagFields = map[string]func(dst *app.Config, src app.Config){
	"ssl.verify":  func(d *app.Config, s app.Config) { d.SSLVerify = s.SSLVerify },
	"allow-empty": func(d *app.Config, s app.Config) { d.AllowEmptyChapters = s.AllowEmptyChapters },
	"yes":         func(d *app.Config, s app.Config) { d.Yes = s.Yes },
	"v":           func(d *app.Config, s app.Config) { d.Verbose = s.Verbose },
	"timeout":     func(d *app.Config, s app.Config) { d.Timeout = s.Timeout },
	"retries":     func(d *app.Config, s app.Config) { d.MaxAttempts = s.MaxAttempts },
	"rate":        func(d *app.Config, s app.Config) { d.RateLimitPerSecond = s.RateLimitPerSecond },
}

// loadConfig layers flags over the config file, the file over the
// environment, and fills defaults last. explicit names the flags given on
// the command line.
func loadConfig(cfg app.Config, explicit map[string]bool, configPath, envFile string) (app.Config, error) {
	flags := cfg
	if err := app.LoadEnvFiles(envFile); err != nil {
		return cfg, fmt.Errorf("load env file: %w", err)
	}
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)
	for name, restore := range flagFields {
		if explicit[name] {
			restore(&cfg, flags)
		}
	}
	cfg = cfg.WithDefaults()
	if err := app.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupLogging sets the global level and, when a log file is configured, tees
// JSON records into a rotating file. The returned func closes the file.
func setupLogging(cfg app.Config, console io.Writer) func() {
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if strings.TrimSpace(cfg.LogFile) == "" {
		return func() {}
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
		rotator,
	)).With().Timestamp().Logger()
	return func() { _ = rotator.Close() }
}

func run(ctx context.Context, cfg app.Config, p prompt.Prompter, out io.Writer) error {
	a, err := app.New(cfg,
		app.WithPrompter(p),
		app.WithProgress(func(done, total int) {
			fmt.Fprintf(out, "Progress: %s\n", app.FormatPercent(done, total))
		}),
	)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	rep, err := a.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Novel %q downloaded to %s (%d chapters)\n", rep.Title, rep.Path, rep.Chapters)
	return nil
}

// exitCode maps run errors onto process exit codes and logs the failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, app.ErrDeclined), prompt.IsAbort(err):
		log.Info().Msg("download cancelled")
		return exitOK
	case app.IsSearchMiss(err):
		log.Error().Err(err).Msg("search found nothing")
		return exitSearchMiss
	case errors.Is(err, app.ErrEmptyQuery):
		log.Error().Err(err).Msg("no title given")
		return exitUsage
	default:
		log.Error().Err(err).Msg("run failed")
		return exitFailure
	}
}
