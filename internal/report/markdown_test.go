package report

import (
	"strings"
	"testing"

	"github.com/scepter-sec/scepter/internal/model"
)

// TestMarkdownWriter tests the shareable report format.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders summary, targets and evidence", func(t *testing.T) {
		t.Parallel()
		var buf strings.Builder
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# SCEPTER Scan Report",
			"## Summary",
			"## Targets",
			"## Evidence",
			"### https://victim.example/login",
			"Okta",
			"failed (dns_failure)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}
	})

	t.Run("omits evidence section without matches", func(t *testing.T) {
		t.Parallel()
		report := &model.ScanReport{
			Results: []model.ScanResult{
				{URL: "https://clean.example/", Matches: []model.Match{}},
			},
		}

		var buf strings.Builder
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "## Evidence") {
			t.Error("evidence section must be absent without matches")
		}
	})
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, jsonOut strings.Builder
	mw := NewMultiWriter(
		NewTextWriter(&text),
		NewJSONWriter(&jsonOut),
	)

	n, err := mw.Write(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+jsonOut.Len() {
		t.Errorf("expected total bytes %d, got %d", text.Len()+jsonOut.Len(), n)
	}
	if text.Len() == 0 || jsonOut.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}
