package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/scepter-sec/scepter/internal/model"
)

// Fetcher retrieves a target's HTML body and referenced script bodies.
//
// Design decision: We define the interface here, next to the production
// implementation, so the scanner can accept any Fetcher. Tests inject
// fakes with artificial latency and failures without touching the network.
type Fetcher interface {
	// Fetch retrieves the content for one target URL. The context carries
	// the per-target deadline; exceeding it must return a timeout-kind
	// transport error. All returned errors are *model.TransportError.
	Fetch(ctx context.Context, target string) (*model.FetchedContent, error)
}

// HTTPFetcher fetches targets over HTTP(S) using net/http.
type HTTPFetcher struct {
	// client is the HTTP client used for all requests. Redirects are
	// followed; the final URL after redirects is recorded on the content.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how many bytes of any response body are read.
	maxBodySize int64

	// maxScripts caps how many referenced scripts are fetched per target.
	maxScripts int

	// scriptConcurrency bounds the parallel script sub-fetches per target.
	scriptConcurrency int
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithHTTPClient sets a custom HTTP client.
// Useful for tests and for callers that need proxy configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the number of bytes read from any response body.
func WithMaxBodySize(size int64) Option {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithMaxScripts caps how many referenced scripts are fetched per target.
func WithMaxScripts(n int) Option {
	return func(f *HTTPFetcher) {
		if n >= 0 {
			f.maxScripts = n
		}
	}
}

// WithInsecureTLS disables TLS certificate verification.
// The probe is after page content, not transport security, so scanning
// sites with broken certificates is a supported mode.
func WithInsecureTLS(insecure bool) Option {
	return func(f *HTTPFetcher) {
		if !insecure {
			return
		}
		transport, ok := f.client.Transport.(*http.Transport)
		if !ok {
			transport = http.DefaultTransport.(*http.Transport).Clone()
		}
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Explicit user opt-in
		f.client.Transport = transport
	}
}

// NewHTTPFetcher creates an HTTPFetcher with sensible defaults.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		userAgent:         "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		maxBodySize:       5 * 1024 * 1024, // 5MB
		maxScripts:        25,
		scriptConcurrency: 4,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the target's HTML and its referenced script bodies.
func (f *HTTPFetcher) Fetch(ctx context.Context, target string) (*model.FetchedContent, error) {
	finalURL, body, err := f.get(ctx, target)
	if err != nil {
		return nil, classify(err)
	}

	content := model.NewFetchedContent(finalURL)
	content.HTMLBody = body

	scriptURLs := ExtractScriptURLs(finalURL, body)
	if f.maxScripts > 0 && len(scriptURLs) > f.maxScripts {
		scriptURLs = scriptURLs[:f.maxScripts]
	}
	f.fetchScripts(ctx, content, scriptURLs)

	return content, nil
}

// get performs a single GET request and returns the final URL (after
// redirects) and the body, capped at maxBodySize.
func (f *HTTPFetcher) get(ctx context.Context, target string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", "", err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", "", &model.TransportError{
			Kind:       model.TransportHTTPStatus,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("server returned %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", "", err
	}

	return resp.Request.URL.String(), string(body), nil
}

// fetchScripts downloads script bodies concurrently. Failures become
// warnings on the content; they never fail the target. All sub-fetches
// complete (or individually fail) before this returns, so the detector
// always sees the full script set.
func (f *HTTPFetcher) fetchScripts(ctx context.Context, content *model.FetchedContent, scriptURLs []string) {
	if len(scriptURLs) == 0 {
		return
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.scriptConcurrency)

	for _, scriptURL := range scriptURLs {
		g.Go(func() error {
			_, body, err := f.get(ctx, scriptURL)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				content.ScriptWarnings[scriptURL] = classify(err).Error()
				// Script failures are tolerated; don't cancel siblings.
				return nil
			}
			content.ScriptBodies[scriptURL] = body
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Workers never return errors
}

// classify maps a transport failure onto a model.TransportError kind.
// Already-classified errors pass through unchanged. Errors that fit no
// specific kind are reported as connection failures: the scan treats all
// kinds uniformly as "target failed", so an approximate kind with the
// original message preserved loses nothing.
func classify(err error) *model.TransportError {
	var transportErr *model.TransportError
	if errors.As(err, &transportErr) {
		return transportErr
	}

	kind := model.TransportConnectionRefused

	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var unknownAuthorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = model.TransportTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = model.TransportTimeout
	case errors.As(err, &dnsErr):
		kind = model.TransportDNSFailure
	case errors.As(err, &certErr), errors.As(err, &recordErr),
		errors.As(err, &unknownAuthorityErr), errors.As(err, &hostnameErr),
		strings.Contains(err.Error(), "tls:"):
		kind = model.TransportTLSError
	}

	return &model.TransportError{Kind: kind, Message: err.Error()}
}
