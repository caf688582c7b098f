package signature

// DefaultConfidenceWeight is used when a rule does not set its own weight.
const DefaultConfidenceWeight = 1.0

// Signature is a named set of detection patterns identifying one MFA/SSO
// provider. Signatures are immutable values: they are constructed at load
// time and only read afterwards.
type Signature struct {
	// Name identifies the provider, e.g. "Okta". Names are unique within
	// the merged registry; a user rule with an existing name fully
	// replaces the built-in entry.
	Name string

	// HTMLPatterns are tested against the page's HTML body and its final
	// URL, in order.
	HTMLPatterns []Pattern

	// ScriptPatterns are tested against each fetched script body, in order.
	ScriptPatterns []Pattern

	// ConfidenceWeight is reported as the confidence of every match this
	// signature produces. Defaults to DefaultConfidenceWeight.
	ConfidenceWeight float64
}

// Validate checks that the signature is well-formed.
func (s Signature) Validate() error {
	if s.Name == "" {
		return ErrMissingName
	}
	if len(s.HTMLPatterns) == 0 && len(s.ScriptPatterns) == 0 {
		return ErrNoPatterns
	}
	if s.ConfidenceWeight < 0 {
		return ErrInvalidWeight
	}
	return nil
}
