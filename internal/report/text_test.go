package report

import (
	"strings"
	"testing"

	"github.com/scepter-sec/scepter/internal/model"
)

// sampleReport returns a report with one detection, one clean target and
// one failure.
func sampleReport() *model.ScanReport {
	return &model.ScanReport{
		Results: []model.ScanResult{
			{
				URL: "https://victim.example/login",
				Matches: []model.Match{
					{Provider: "Okta", Source: model.SourceHTML, Evidence: `literal "okta.com"`, Confidence: 1.0},
				},
				Warnings: []string{"https://victim.example/broken.js: http_status (404): server returned 404 Not Found"},
			},
			{
				URL:     "https://clean.example/",
				Matches: []model.Match{},
			},
			{
				URL:     "https://down.example/",
				Matches: []model.Match{},
				Error:   &model.TransportError{Kind: model.TransportDNSFailure, Message: "no such host"},
			},
		},
	}
}

// TestTextWriter tests the terminal report format.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary line and per-target rows", func(t *testing.T) {
		t.Parallel()
		var buf strings.Builder
		w := NewTextWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		if !strings.Contains(out, "Targets: 3   Detected: 1   Failed: 1") {
			t.Errorf("missing summary line in:\n%s", out)
		}
		if !strings.Contains(out, "Okta") {
			t.Error("expected the detected provider in the output")
		}
		if !strings.Contains(out, "none") {
			t.Error("expected 'none' for the clean target")
		}
		if !strings.Contains(out, "failed (dns_failure)") {
			t.Error("expected the failure status with its kind")
		}
		if strings.Contains(out, "Details") {
			t.Error("evidence section must be absent without verbose")
		}
	})

	t.Run("verbose adds the evidence section", func(t *testing.T) {
		t.Parallel()
		var buf strings.Builder
		w := NewTextWriter(&buf, WithVerbose(true))

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Details") {
			t.Fatalf("missing evidence section in:\n%s", out)
		}
		if !strings.Contains(out, `evidence=literal "okta.com"`) {
			t.Error("expected the match evidence")
		}
		if !strings.Contains(out, "warning: https://victim.example/broken.js") {
			t.Error("expected the script warning")
		}
		if !strings.Contains(out, "error: dns_failure: no such host") {
			t.Error("expected the failed target's error")
		}
	})

	t.Run("lowercase provider names are title-cased", func(t *testing.T) {
		t.Parallel()
		report := &model.ScanReport{
			Results: []model.ScanResult{
				{
					URL: "https://victim.example/",
					Matches: []model.Match{
						{Provider: "acme sso", Source: model.SourceHTML},
					},
				},
			},
		}

		var buf strings.Builder
		if _, err := NewTextWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Acme Sso") {
			t.Errorf("expected title-cased provider in:\n%s", buf.String())
		}
	})

	t.Run("mixed-case names keep the author's casing", func(t *testing.T) {
		t.Parallel()
		report := &model.ScanReport{
			Results: []model.ScanResult{
				{
					URL: "https://victim.example/",
					Matches: []model.Match{
						{Provider: "OneLogin", Source: model.SourceHTML},
					},
				},
			},
		}

		var buf strings.Builder
		if _, err := NewTextWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "OneLogin") {
			t.Errorf("expected the original casing in:\n%s", buf.String())
		}
	})
}
