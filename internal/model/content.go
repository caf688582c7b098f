package model

// SourceHTML is the Match source value for evidence found in the page's
// HTML body (or in the final page URL itself). Script evidence uses the
// script's URL as its source instead.
const SourceHTML = "html"

// FetchedContent holds everything retrieved for a single target.
// It is owned exclusively by the worker processing that target and is
// discarded once detection completes.
type FetchedContent struct {
	// URL is the final URL of the page after redirects. Detection also
	// runs against this string because a redirect to a provider-hosted
	// login page is strong evidence on its own.
	URL string

	// HTMLBody is the raw HTML of the page. Empty when the fetch failed;
	// an empty body yields no matches, not an error.
	HTMLBody string

	// ScriptBodies maps each fetched script URL to its body. A script
	// that could not be fetched is simply absent; absence is not an
	// error for the overall target.
	ScriptBodies map[string]string

	// ScriptWarnings records script sub-fetches that failed, keyed by
	// script URL. These are informational only and never fail the target.
	ScriptWarnings map[string]string
}

// NewFetchedContent creates a FetchedContent for the given final URL with
// initialized maps.
func NewFetchedContent(url string) *FetchedContent {
	return &FetchedContent{
		URL:            url,
		ScriptBodies:   make(map[string]string),
		ScriptWarnings: make(map[string]string),
	}
}
