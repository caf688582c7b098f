package signature

import "errors"

// Signature loading errors.
// These are fatal: a registry that fails to load aborts the scan before
// any network work begins, because nothing can be detected meaningfully
// without valid rules.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each failure site. This allows callers
// to use errors.Is() for programmatic error handling while still providing
// human-readable messages; dynamic detail is attached by wrapping.
var (
	// ErrInvalidPattern is returned when a rule contains an unparseable
	// regular expression or an empty pattern.
	ErrInvalidPattern = errors.New("invalid signature pattern")

	// ErrMissingName is returned when a user-supplied rule has no provider
	// name. The name is required because it identifies the provider in
	// matches and drives override-by-name merging.
	ErrMissingName = errors.New("signature is missing a name")

	// ErrNoPatterns is returned when a user-supplied rule defines neither
	// HTML nor script patterns. Such a rule can never match anything.
	ErrNoPatterns = errors.New("signature defines no patterns")

	// ErrInvalidWeight is returned when a confidence weight is negative.
	ErrInvalidWeight = errors.New("confidence weight must not be negative")
)
