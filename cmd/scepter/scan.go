package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scepter-sec/scepter/internal/config"
	"github.com/scepter-sec/scepter/internal/fetcher"
	"github.com/scepter-sec/scepter/internal/history"
	"github.com/scepter-sec/scepter/internal/log"
	"github.com/scepter-sec/scepter/internal/model"
	"github.com/scepter-sec/scepter/internal/report"
	"github.com/scepter-sec/scepter/internal/scanner"
	"github.com/scepter-sec/scepter/internal/signature"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Scan websites for MFA/SSO provider evidence",
		Long: `Scan fetches each target's HTML and referenced scripts and matches them
against the provider signature library.

A target that fails to fetch is reported with its failure kind; it never
aborts the rest of the scan. Targets without a scheme default to https.

Examples:
  # Scan a single site
  scepter scan example.com

  # Scan several sites with bounded parallelism
  scepter scan -n 5 site1.com site2.com site3.com

  # Scan URLs from a file, one per line
  scepter scan --list targets.txt

  # Use custom provider rules and write a JSON report to a file
  scepter scan --providers rules.yaml --json -o report.json example.com

  # Bound the whole run to two minutes
  scepter scan --list targets.txt --global-timeout 2m`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Target selection flags
	cmd.Flags().StringP("list", "l", "",
		"File containing target URLs, one per line")

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each target (page plus scripts)")
	cmd.Flags().DurationP("global-timeout", "g", 0,
		"Timeout for the entire scan (0 disables)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of targets scanned in parallel")
	cmd.Flags().BoolP("insecure", "k", false,
		"Skip TLS certificate verification")

	// Signature rules
	cmd.Flags().StringP("providers", "p", "",
		"Providers rule file path (default: providers.yaml in current or XDG config directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this scan in the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.GlobalTimeout, err = cmd.Flags().GetDuration("global-timeout")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.InsecureTLS, err = cmd.Flags().GetBool("insecure")
	if err != nil {
		return nil, err
	}

	cfg.ProvidersFile, err = cmd.Flags().GetString("providers")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	// Positional arguments and --list both contribute targets, in that order.
	for _, arg := range args {
		cfg.Targets = append(cfg.Targets, config.EnsureScheme(arg))
	}

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		listed, err := config.LoadTargetsFile(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, listed...)
	}

	return cfg, nil
}

// loadRegistry builds the signature registry from built-ins plus the user
// rule file, if one is found. A registry failure is fatal: it surfaces
// here, before any scanning begins.
func loadRegistry(cfg *config.Config, logger *slog.Logger) (*signature.Registry, error) {
	var overrides []signature.Signature

	explicitPath := cfg.ProvidersFile != ""
	providersPath := config.FindProvidersFile(cfg.ProvidersFile)

	switch {
	case providersPath != "":
		var err error
		overrides, err = signature.ParseRuleFile(providersPath)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded provider rules", "path", providersPath, "rules", len(overrides))
	case explicitPath:
		// User explicitly specified a rule file that doesn't exist
		return nil, fmt.Errorf("providers rule file not found: %s", cfg.ProvidersFile)
	}

	registry, err := signature.Load(signature.Builtins(), overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load signature registry: %w", err)
	}

	logger.Debug("signature registry loaded", "signatures", registry.Len())
	return registry, nil
}

// runScan executes the scan and renders the report.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		return err
	}

	httpFetcher := fetcher.NewHTTPFetcher(
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithMaxScripts(cfg.MaxScripts),
		fetcher.WithInsecureTLS(cfg.InsecureTLS),
	)

	s := scanner.New(httpFetcher, registry,
		scanner.WithConcurrency(cfg.Concurrency),
		scanner.WithPerTargetTimeout(cfg.Timeout),
		scanner.WithGlobalTimeout(cfg.GlobalTimeout),
		scanner.WithLogger(logger),
	)

	scanReport := s.Run(ctx, cfg.Targets)

	if cfg.SaveHistory {
		saveHistory(ctx, scanReport, logger)
	}

	return writeReport(cfg, scanReport)
}

// saveHistory records the report in the history database.
// History failures are logged, never fatal: the scan already succeeded.
func saveHistory(ctx context.Context, scanReport *model.ScanReport, logger *slog.Logger) {
	db, err := history.Open(config.XDGDataDir())
	if err != nil {
		logger.Warn("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	id, err := db.SaveReport(ctx, scanReport)
	if err != nil {
		logger.Warn("failed to save scan to history", "error", err)
		return
	}
	logger.Debug("scan saved to history", "id", id)
}

// writeReport renders the report in the configured format and destination.
func writeReport(cfg *config.Config, scanReport *model.ScanReport) error {
	output := io.Writer(os.Stdout)
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(scanReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
