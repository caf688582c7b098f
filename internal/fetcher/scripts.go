package fetcher

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractScriptURLs parses HTML and returns the script URLs it references,
// in document order and deduplicated.
//
// Relative src attributes are resolved against the page's final URL, so
// they always point at the same origin. Absolute URLs are kept regardless
// of origin because third-party provider scripts (the thing we are looking
// for) are usually served from the provider's CDN. Only http and https
// URLs are returned.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// it correctly handles the malformed HTML common on the web and is cheaper
// to maintain than attribute-matching expressions.
func ExtractScriptURLs(pageURL, htmlBody string) []string {
	if htmlBody == "" {
		return nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	doc, err := html.Parse(strings.NewReader(htmlBody))
	if err != nil {
		// html.Parse almost never fails (it repairs as it goes), but a
		// page we cannot parse at all simply has no script references.
		return nil
	}

	seen := make(map[string]bool)
	urls := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if src, ok := attr(n, "src"); ok {
				if resolved := resolveScriptURL(base, src); resolved != "" && !seen[resolved] {
					seen[resolved] = true
					urls = append(urls, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return urls
}

// attr returns the value of the named attribute on an element node.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val), true
		}
	}
	return "", false
}

// resolveScriptURL resolves a src attribute into an absolute http(s) URL,
// or returns "" when it cannot be used.
func resolveScriptURL(base *url.URL, src string) string {
	if src == "" {
		return ""
	}

	u, err := url.Parse(src)
	if err != nil {
		return ""
	}

	if base != nil {
		u = base.ResolveReference(u)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}

	return u.String()
}
