package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/scepter-sec/scepter/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("SCEPTER Scan Report")
	md.PlainText("")

	w.writeSummary(md, report)
	w.writeResults(md, report)
	w.writeEvidence(md, report)

	md.HorizontalRule()
	md.PlainText("Generated by SCEPTER.")

	return len(md.String()), md.Build()
}

// writeSummary writes the scan-level summary table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Summary")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Finished", report.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Targets", fmt.Sprintf("%d", len(report.Results))},
			{"Targets with detections", fmt.Sprintf("%d", report.DetectedCount())},
			{"Failed targets", fmt.Sprintf("%d", report.FailedCount())},
		},
	})
}

// writeResults writes the per-target overview table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Targets")

	rows := make([][]string, 0, len(report.Results))
	for i := range report.Results {
		result := &report.Results[i]

		status := "ok"
		if result.Failed() {
			status = "failed (" + string(result.Error.Kind) + ")"
		}

		providers := "-"
		if names := result.Providers(); len(names) > 0 {
			providers = strings.Join(names, ", ")
		}

		rows = append(rows, []string{result.URL, providers, status})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Detected Providers", "Status"},
		Rows:   rows,
	})
}

// writeEvidence writes one evidence table per target that has matches.
func (w *MarkdownWriter) writeEvidence(md *markdown.Markdown, report *model.ScanReport) {
	wrote := false
	for i := range report.Results {
		result := &report.Results[i]
		if len(result.Matches) == 0 {
			continue
		}
		if !wrote {
			md.H2("Evidence")
			wrote = true
		}

		md.H3(result.URL)
		rows := make([][]string, 0, len(result.Matches))
		for _, m := range result.Matches {
			rows = append(rows, []string{
				m.Provider,
				m.Source,
				m.Evidence,
				fmt.Sprintf("%.1f", m.Confidence),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Provider", "Source", "Evidence", "Confidence"},
			Rows:   rows,
		})
	}
}
