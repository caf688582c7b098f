// Package report renders scan reports in multiple output formats.
//
// Three writers are provided:
//   - TextWriter: human-readable summary table for terminal display
//   - JSONWriter: machine-readable output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for documentation and sharing
//
// All writers consume the ScanReport read-only. The scanner hands over a
// fully populated report (exactly one result per input URL), so writers
// never need to validate or repair it.
package report
