package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scepter-sec/scepter/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display: one line per target with
// the detected providers and status, followed by an optional verbose
// section listing evidence and warnings.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// verbose enables the per-target evidence section.
	verbose bool

	// titler title-cases provider names for display. User rule files
	// often use lowercase keys ("okta"); the report shouldn't.
	titler cases.Caser
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with per-target evidence details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		titler:     cases.Title(language.English, cases.NoLower),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("SCEPTER Scan Report\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&sb, "Targets: %d   Detected: %d   Failed: %d\n\n",
		len(report.Results), report.DetectedCount(), report.FailedCount())

	for i := range report.Results {
		w.writeResult(&sb, &report.Results[i])
	}

	if w.verbose {
		w.writeEvidence(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeResult writes the one-line summary for a single target.
func (w *TextWriter) writeResult(sb *strings.Builder, result *model.ScanResult) {
	status := "ok"
	if result.Failed() {
		status = "failed (" + string(result.Error.Kind) + ")"
	}

	providers := "none"
	if names := result.Providers(); len(names) > 0 {
		display := make([]string, 0, len(names))
		for _, name := range names {
			display = append(display, w.displayName(name))
		}
		providers = strings.Join(display, ", ")
	}

	fmt.Fprintf(sb, "%-50s  %-30s  %s\n", result.URL, providers, status)
}

// writeEvidence writes the verbose per-target details.
func (w *TextWriter) writeEvidence(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\nDetails\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	for i := range report.Results {
		result := &report.Results[i]
		fmt.Fprintf(sb, "\n%s\n", result.URL)

		if result.Failed() {
			fmt.Fprintf(sb, "  error: %s\n", result.Error)
			continue
		}

		for _, m := range result.Matches {
			fmt.Fprintf(sb, "  %s  source=%s  evidence=%s  confidence=%.1f\n",
				w.displayName(m.Provider), m.Source, m.Evidence, m.Confidence)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(sb, "  warning: %s\n", warning)
		}
	}
}

// displayName title-cases a provider name unless it already contains an
// uppercase letter, in which case the signature author's casing wins.
func (w *TextWriter) displayName(name string) string {
	if strings.ToLower(name) != name {
		return name
	}
	return w.titler.String(name)
}
