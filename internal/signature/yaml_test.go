package signature

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestParseRulesStructured tests the structured providers form.
func TestParseRulesStructured(t *testing.T) {
	t.Parallel()

	t.Run("parses literal and regex patterns", func(t *testing.T) {
		t.Parallel()
		sigs, err := ParseRules([]byte(`
providers:
  - name: Okta
    htmlPatterns:
      - literal: okta.com
    scriptPatterns:
      - regex: new\s+OktaSignIn\(
    confidenceWeight: 1.5
`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sigs) != 1 {
			t.Fatalf("expected 1 signature, got %d", len(sigs))
		}

		sig := sigs[0]
		if sig.Name != "Okta" {
			t.Errorf("expected name Okta, got %s", sig.Name)
		}
		if sig.ConfidenceWeight != 1.5 {
			t.Errorf("expected weight 1.5, got %f", sig.ConfidenceWeight)
		}
		if !sig.HTMLPatterns[0].Matches("https://login.okta.com/") {
			t.Error("expected literal pattern to match")
		}
		if !sig.ScriptPatterns[0].Matches("var w = new OktaSignIn({});") {
			t.Error("expected regex pattern to match")
		}
	})

	t.Run("bare strings compile as regular expressions", func(t *testing.T) {
		t.Parallel()
		sigs, err := ParseRules([]byte(`
providers:
  - name: Duo
    scriptPatterns:
      - Duo\.init\s*\(
`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sigs[0].ScriptPatterns[0].Matches("Duo.init ({})") {
			t.Error("expected bare string to behave as a regex")
		}
	})

	t.Run("parses anyOf and allOf groups", func(t *testing.T) {
		t.Parallel()
		sigs, err := ParseRules([]byte(`
providers:
  - name: RSA SecurID
    htmlPatterns:
      - allOf:
          - literal: rsa
          - anyOf:
              - literal: securid
              - literal: passcode
`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		p := sigs[0].HTMLPatterns[0]
		if !p.Matches("RSA SecurID token entry") {
			t.Error("expected group to match")
		}
		if !p.Matches("enter your RSA passcode") {
			t.Error("expected group to match on alternate branch")
		}
		if p.Matches("RSA public key") {
			t.Error("expected group to fail without inner branch")
		}
	})

	t.Run("preserves declaration order", func(t *testing.T) {
		t.Parallel()
		sigs, err := ParseRules([]byte(`
providers:
  - name: Zeta
    htmlPatterns: [zeta]
  - name: Alpha
    htmlPatterns: [alpha]
`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sigs[0].Name != "Zeta" || sigs[1].Name != "Alpha" {
			t.Error("expected file declaration order to be preserved")
		}
	})

	t.Run("empty providers list yields no rules", func(t *testing.T) {
		t.Parallel()
		sigs, err := ParseRules([]byte("providers:\n  # - name: Example\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sigs) != 0 {
			t.Errorf("expected no signatures, got %d", len(sigs))
		}
	})

	t.Run("rejects entry without name", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRules([]byte(`
providers:
  - htmlPatterns: [x]
`))
		if !errors.Is(err, ErrMissingName) {
			t.Errorf("expected ErrMissingName, got %v", err)
		}
	})

	t.Run("rejects entry without patterns", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRules([]byte(`
providers:
  - name: Empty
`))
		if !errors.Is(err, ErrNoPatterns) {
			t.Errorf("expected ErrNoPatterns, got %v", err)
		}
	})

	t.Run("rejects invalid regex", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRules([]byte(`
providers:
  - name: Bad
    htmlPatterns:
      - regex: "[unclosed"
`))
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})

	t.Run("rejects empty pattern entry", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRules([]byte(`
providers:
  - name: Bad
    htmlPatterns:
      - {}
`))
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})
}

// TestParseRulesLegacy tests the shorthand name-to-expressions form.
func TestParseRulesLegacy(t *testing.T) {
	t.Parallel()

	t.Run("expressions apply to html and scripts", func(t *testing.T) {
		t.Parallel()
		sigs, err := ParseRules([]byte(`
Okta:
  - okta\.com
  - OktaSignIn
Duo:
  - duosecurity\.com
`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sigs) != 2 {
			t.Fatalf("expected 2 signatures, got %d", len(sigs))
		}
		if sigs[0].Name != "Okta" || sigs[1].Name != "Duo" {
			t.Error("expected mapping key order to be preserved")
		}
		if len(sigs[0].HTMLPatterns) != 2 || len(sigs[0].ScriptPatterns) != 2 {
			t.Error("expected expressions on both html and script sides")
		}
		if !sigs[0].HTMLPatterns[0].Matches("login.okta.com") {
			t.Error("expected shorthand expression to compile as regex")
		}
	})

	t.Run("rejects invalid expression", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRules([]byte(`
Bad:
  - "[unclosed"
`))
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})

	t.Run("rejects non-mapping document", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRules([]byte("- just\n- a\n- list\n"))
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})
}

// TestParseRuleFile tests reading rules from disk.
func TestParseRuleFile(t *testing.T) {
	t.Parallel()

	t.Run("reads and parses a rule file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "providers.yaml")
		content := []byte(`
providers:
  - name: Acme SSO
    htmlPatterns:
      - literal: sso.acme.example
`)
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatal(err)
		}

		sigs, err := ParseRuleFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sigs) != 1 || sigs[0].Name != "Acme SSO" {
			t.Errorf("unexpected signatures: %+v", sigs)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRuleFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
