package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scepter-sec/scepter/internal/config"
)

// parseScanFlags parses flags into a fresh scan command for testing.
func parseScanFlags(t *testing.T, args []string) *config.Config {
	t.Helper()

	cmd := NewScanCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := buildConfig(cmd, cmd.Flags().Args())
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	return cfg
}

// TestBuildConfig tests flag-to-config translation.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg := parseScanFlags(t, []string{"example.com"})

		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if cfg.Concurrency != config.DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
		}
		if !cfg.SaveHistory {
			t.Error("expected history enabled by default")
		}
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected text report by default")
		}
	})

	t.Run("positional targets get a scheme", func(t *testing.T) {
		t.Parallel()
		cfg := parseScanFlags(t, []string{"example.com", "https://other.example/"})

		if len(cfg.Targets) != 2 {
			t.Fatalf("expected 2 targets, got %d", len(cfg.Targets))
		}
		if cfg.Targets[0] != "https://example.com" {
			t.Errorf("expected https scheme prepended, got %s", cfg.Targets[0])
		}
		if cfg.Targets[1] != "https://other.example/" {
			t.Errorf("expected explicit scheme preserved, got %s", cfg.Targets[1])
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()
		cfg := parseScanFlags(t, []string{
			"-t", "5s", "-g", "2m", "-n", "3", "-k", "-j",
			"--no-history", "-o", "out.json", "example.com",
		})

		if cfg.Timeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
		}
		if cfg.GlobalTimeout != 2*time.Minute {
			t.Errorf("expected 2m global timeout, got %v", cfg.GlobalTimeout)
		}
		if cfg.Concurrency != 3 {
			t.Errorf("expected concurrency 3, got %d", cfg.Concurrency)
		}
		if !cfg.InsecureTLS {
			t.Error("expected insecure TLS enabled")
		}
		if !cfg.JSONReport {
			t.Error("expected JSON report enabled")
		}
		if cfg.SaveHistory {
			t.Error("expected history disabled")
		}
		if cfg.ReportFile != "out.json" {
			t.Errorf("expected report file out.json, got %s", cfg.ReportFile)
		}
	})

	t.Run("list file targets append after positionals", func(t *testing.T) {
		t.Parallel()
		listPath := filepath.Join(t.TempDir(), "targets.txt")
		if err := os.WriteFile(listPath, []byte("listed.example\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cfg := parseScanFlags(t, []string{"-l", listPath, "first.example"})

		if len(cfg.Targets) != 2 {
			t.Fatalf("expected 2 targets, got %v", cfg.Targets)
		}
		if cfg.Targets[0] != "https://first.example" || cfg.Targets[1] != "https://listed.example" {
			t.Errorf("unexpected target order: %v", cfg.Targets)
		}
	})

	t.Run("conflicting formats fail validation", func(t *testing.T) {
		t.Parallel()
		cfg := parseScanFlags(t, []string{"-j", "-m", "example.com"})
		if err := cfg.Validate(); !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("no targets fail validation", func(t *testing.T) {
		t.Parallel()
		cfg := parseScanFlags(t, nil)
		if err := cfg.Validate(); !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})
}

// TestLoadRegistry tests registry construction from config.
func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("builtins alone without a rule file", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()

		registry, err := loadRegistry(cfg, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if registry.Len() == 0 {
			t.Error("expected builtin signatures")
		}
	})

	t.Run("user rules override builtins", func(t *testing.T) {
		t.Parallel()
		rulePath := filepath.Join(t.TempDir(), "providers.yaml")
		rules := []byte(`
providers:
  - name: Okta
    htmlPatterns:
      - literal: custom-okta-marker
    confidenceWeight: 3.0
`)
		if err := os.WriteFile(rulePath, rules, 0600); err != nil {
			t.Fatal(err)
		}

		cfg := config.NewConfig()
		cfg.ProvidersFile = rulePath

		registry, err := loadRegistry(cfg, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sig, ok := registry.Lookup("Okta")
		if !ok {
			t.Fatal("expected Okta in the registry")
		}
		if sig.ConfidenceWeight != 3.0 {
			t.Errorf("expected the user rule to win, got weight %f", sig.ConfidenceWeight)
		}
	})

	t.Run("explicit missing rule file is fatal", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.ProvidersFile = filepath.Join(t.TempDir(), "missing.yaml")

		if _, err := loadRegistry(cfg, logger); err == nil {
			t.Fatal("expected error for an explicitly named missing rule file")
		}
	})

	t.Run("malformed rule file is fatal", func(t *testing.T) {
		t.Parallel()
		rulePath := filepath.Join(t.TempDir(), "providers.yaml")
		if err := os.WriteFile(rulePath, []byte("Bad:\n  - \"[unclosed\"\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cfg := config.NewConfig()
		cfg.ProvidersFile = rulePath

		if _, err := loadRegistry(cfg, logger); err == nil {
			t.Fatal("expected error for a malformed rule file")
		}
	})
}

// TestNewScanCmdFlags tests that all documented flags are registered.
func TestNewScanCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()
	for _, name := range []string{
		"list", "timeout", "global-timeout", "concurrency", "insecure",
		"providers", "json", "markdown", "output", "no-history",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
}
