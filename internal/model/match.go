package model

// Match records evidence that one provider signature was found in one
// source of a target's content.
//
// Matches for a single target are unique by (Provider, Source). Multiple
// patterns of the same signature hitting the same source collapse into a
// single Match; they are never double-counted.
type Match struct {
	// Provider is the signature name, e.g. "Okta".
	Provider string `json:"provider"`

	// Source is SourceHTML for evidence in the page body or final URL,
	// or the script URL for evidence found in a fetched script.
	Source string `json:"source"`

	// Evidence is the matched substring or a description of the pattern
	// that matched.
	Evidence string `json:"evidence"`

	// Confidence is the signature's weight. The base weight is reported
	// regardless of how many patterns within the signature matched.
	Confidence float64 `json:"confidence"`
}
