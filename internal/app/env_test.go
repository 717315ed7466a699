package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	unsetenv(t, "NOVELGRAB_TEST_FOO")
	unsetenv(t, "NOVELGRAB_TEST_BAR")
	unsetenv(t, "NOVELGRAB_TEST_QUOTED")

	envPath := filepath.Join(t.TempDir(), ".env")
	content := "\n# sample dotenv file\nNOVELGRAB_TEST_FOO=alpha\nexport NOVELGRAB_TEST_BAR = beta\nNOVELGRAB_TEST_QUOTED=\"two words\"\nnot a pair\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("NOVELGRAB_TEST_FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("NOVELGRAB_TEST_BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta", got)
	}
	if got := os.Getenv("NOVELGRAB_TEST_QUOTED"); got != "two words" {
		t.Fatalf("QUOTED=%q", got)
	}
}

func TestLoadEnvFiles_OverrideOrderAndPreset(t *testing.T) {
	unsetenv(t, "NOVELGRAB_TEST_K")
	t.Setenv("NOVELGRAB_TEST_SHELL", "shell")

	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("NOVELGRAB_TEST_K=first\nNOVELGRAB_TEST_SHELL=file\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("NOVELGRAB_TEST_K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := LoadEnvFiles(a, filepath.Join(dir, "missing"), b, ""); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv("NOVELGRAB_TEST_K"); got != "second" {
		t.Fatalf("K=%q, want second", got)
	}
	if got := os.Getenv("NOVELGRAB_TEST_SHELL"); got != "shell" {
		t.Fatalf("preset variable overridden: %q", got)
	}
}

func TestApplyEnvToConfig(t *testing.T) {
	t.Setenv("NOVELGRAB_QUERY", "Env Novel")
	t.Setenv("NOVELGRAB_MIRROR_HOST", "env.example")
	t.Setenv("NOVELGRAB_TIMEOUT", "7s")
	t.Setenv("NOVELGRAB_MAX_ATTEMPTS", "3")
	t.Setenv("NOVELGRAB_RATE", "0.5")
	t.Setenv("NOVELGRAB_SSL_VERIFY", "true")
	t.Setenv("NOVELGRAB_ALLOW_EMPTY", "1")
	t.Setenv("NOVELGRAB_YES", "no")

	cfg := Config{MirrorHost: "flag.example"}
	ApplyEnvToConfig(&cfg)
	if cfg.Query != "Env Novel" {
		t.Fatalf("query=%q", cfg.Query)
	}
	if cfg.MirrorHost != "flag.example" {
		t.Fatalf("explicit value replaced: %q", cfg.MirrorHost)
	}
	if cfg.Timeout != 7*time.Second || cfg.MaxAttempts != 3 || cfg.RateLimitPerSecond != 0.5 {
		t.Fatalf("numeric env not applied: %+v", cfg)
	}
	if !cfg.SSLVerify || !cfg.AllowEmptyChapters || cfg.Yes {
		t.Fatalf("bool env wrong: %+v", cfg)
	}
}

func TestApplyEnvToConfig_IgnoresGarbage(t *testing.T) {
	t.Setenv("NOVELGRAB_TIMEOUT", "soon")
	t.Setenv("NOVELGRAB_MAX_ATTEMPTS", "-2")
	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.Timeout != 0 || cfg.MaxAttempts != 0 {
		t.Fatalf("garbage applied: %+v", cfg)
	}
	ApplyEnvToConfig(nil)
}
