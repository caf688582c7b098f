package detector

import (
	"sort"

	"github.com/scepter-sec/scepter/internal/model"
	"github.com/scepter-sec/scepter/internal/signature"
)

// Detect matches every signature in the registry against the fetched
// content and returns the resulting matches.
//
// For each signature, HTML patterns are tested against the HTML body and
// the final page URL; script patterns are tested against each fetched
// script body. A signature contributes at most one Match per source, no
// matter how many of its patterns hit that source, and the match carries
// the signature's base confidence weight.
//
// Empty HTML and no scripts yield an empty match set, not an error. A
// script present with an empty body is fetched-but-empty and simply
// produces no matches for that source.
func Detect(content *model.FetchedContent, registry *signature.Registry) []model.Match {
	if content == nil || registry == nil {
		return nil
	}

	matches := make([]model.Match, 0)

	// Script sources are visited in sorted order so the match list is
	// deterministic even though ScriptBodies is a map.
	scriptURLs := make([]string, 0, len(content.ScriptBodies))
	for u := range content.ScriptBodies {
		scriptURLs = append(scriptURLs, u)
	}
	sort.Strings(scriptURLs)

	for _, sig := range registry.All() {
		if m, ok := matchHTML(sig, content); ok {
			matches = append(matches, m)
		}

		for _, scriptURL := range scriptURLs {
			body := content.ScriptBodies[scriptURL]
			if body == "" {
				continue
			}
			if p, ok := firstMatch(sig.ScriptPatterns, body); ok {
				matches = append(matches, model.Match{
					Provider:   sig.Name,
					Source:     scriptURL,
					Evidence:   p.Describe(),
					Confidence: sig.ConfidenceWeight,
				})
			}
		}
	}

	return matches
}

// matchHTML tests a signature's HTML patterns against the page body and,
// failing that, against the final page URL. A redirect onto a provider's
// hosted login page is evidence even when the body reveals nothing, so a
// URL-only hit still reports source "html".
func matchHTML(sig signature.Signature, content *model.FetchedContent) (model.Match, bool) {
	if content.HTMLBody != "" {
		if p, ok := firstMatch(sig.HTMLPatterns, content.HTMLBody); ok {
			return model.Match{
				Provider:   sig.Name,
				Source:     model.SourceHTML,
				Evidence:   p.Describe(),
				Confidence: sig.ConfidenceWeight,
			}, true
		}
	}

	if content.URL != "" {
		if p, ok := firstMatch(sig.HTMLPatterns, content.URL); ok {
			return model.Match{
				Provider:   sig.Name,
				Source:     model.SourceHTML,
				Evidence:   "url: " + p.Describe(),
				Confidence: sig.ConfidenceWeight,
			}, true
		}
	}

	return model.Match{}, false
}

// firstMatch returns the first pattern that matches text.
func firstMatch(patterns []signature.Pattern, text string) (signature.Pattern, bool) {
	for _, p := range patterns {
		if p.Matches(text) {
			return p, true
		}
	}
	return nil, false
}
