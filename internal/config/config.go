package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds each target's fetch, including the script
	// sub-fetches. 30 seconds matches the behavior users expect from an
	// interactive probing tool: slow targets are reported as timed out
	// rather than stalling the run.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency of 10 concurrent targets balances throughput
	// with politeness. Higher values finish large lists faster but look
	// more like an attack to the targets' infrastructure.
	DefaultConcurrency = 10

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages and bundled scripts while
	// preventing memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMaxScripts caps the referenced scripts fetched per target.
	// Modern pages can reference dozens of scripts; the detection signal
	// almost always appears within the first few provider bundles.
	DefaultMaxScripts = 25

	// DefaultUserAgent is a browser-like User-Agent. Provider widgets are
	// frequently served only to browser-looking clients, so identifying
	// as a scanner would hide exactly the evidence we probe for.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultProvidersFile is the default providers rule file name.
	DefaultProvidersFile = "providers.yaml"

	// AppName is the application name used for XDG directory paths.
	AppName = "scepter"
)

// Config holds all configuration options for SCEPTER.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Targets is the list of URLs to scan, in input order. The report
	// preserves this order.
	Targets []string

	// Timeout bounds each individual target's fetch.
	Timeout time.Duration

	// GlobalTimeout bounds the entire scan. Zero disables the bound.
	GlobalTimeout time.Duration

	// Concurrency is the number of targets scanned in parallel.
	Concurrency int

	// ProvidersFile is the path to a user providers rule file. If empty,
	// the tool searches for providers.yaml in the current directory and
	// the XDG config directory; built-ins alone are used when none exists.
	ProvidersFile string

	// Verbose enables detailed log output using slog.LevelDebug and the
	// per-target evidence section in text reports.
	Verbose bool

	// JSONReport enables JSON report output instead of the text format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the text
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// InsecureTLS disables TLS certificate verification. The original
	// tool always ignored HTTPS errors; here it is an explicit opt-in.
	InsecureTLS bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// MaxScripts caps the referenced scripts fetched per target.
	MaxScripts int

	// SaveHistory indicates whether to record completed scans in the
	// history database under the XDG data directory.
	SaveHistory bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g. timeout,
// concurrency). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		MaxScripts:  DefaultMaxScripts,
		SaveHistory: true,
	}
}

// XDGDataDir returns the XDG data directory for SCEPTER.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/scepter
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SCEPTER.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/scepter
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant. This is
// called once after CLI parsing, before any scanning begins.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.GlobalTimeout < 0 {
		return ErrInvalidGlobalTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
