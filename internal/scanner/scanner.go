package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scepter-sec/scepter/internal/detector"
	"github.com/scepter-sec/scepter/internal/fetcher"
	"github.com/scepter-sec/scepter/internal/model"
	"github.com/scepter-sec/scepter/internal/signature"
)

// Scanner orchestrates concurrent scans over a list of target URLs.
//
// The registry is read-only after load and shared by all workers without
// locking. Everything else a worker needs travels through its arguments;
// there is no package-level mutable state.
type Scanner struct {
	// fetcher retrieves content for each target.
	fetcher fetcher.Fetcher

	// registry holds the compiled provider signatures.
	registry *signature.Registry

	// concurrency is the maximum number of in-flight targets.
	concurrency int

	// perTargetTimeout bounds each target's fetch (page plus scripts).
	perTargetTimeout time.Duration

	// globalTimeout bounds the whole scan. Zero means no global bound.
	globalTimeout time.Duration

	// logger is used for per-target progress logging.
	logger *slog.Logger
}

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithConcurrency sets the maximum number of concurrent targets.
// Values below 1 are clamped to 1.
func WithConcurrency(n int) ScanOption {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithPerTargetTimeout bounds each target's fetch.
func WithPerTargetTimeout(d time.Duration) ScanOption {
	return func(s *Scanner) {
		if d > 0 {
			s.perTargetTimeout = d
		}
	}
}

// WithGlobalTimeout bounds the entire scan. Zero disables the bound.
func WithGlobalTimeout(d time.Duration) ScanOption {
	return func(s *Scanner) {
		if d >= 0 {
			s.globalTimeout = d
		}
	}
}

// WithLogger sets a custom logger for scan progress.
func WithLogger(logger *slog.Logger) ScanOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner for the given fetcher and registry.
func New(f fetcher.Fetcher, registry *signature.Registry, opts ...ScanOption) *Scanner {
	s := &Scanner{
		fetcher:          f,
		registry:         registry,
		concurrency:      10,
		perTargetTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Run scans all targets and returns a complete report.
//
// The report always contains exactly one result per input URL, in input
// order, regardless of completion order or failures. Run never returns a
// partial report: targets still pending when the global timeout expires
// are recorded with a timeout-kind error.
func (s *Scanner) Run(ctx context.Context, urls []string) *model.ScanReport {
	startedAt := time.Now()

	s.logger.Info("starting scan",
		"targets", len(urls),
		"concurrency", s.concurrency,
		"perTargetTimeout", s.perTargetTimeout,
		"globalTimeout", s.globalTimeout,
	)

	if s.globalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.globalTimeout)
		defer cancel()
	}

	// Completions are collected in whatever order workers finish;
	// the aggregator restores input order afterwards.
	completions := make([]model.ScanResult, 0, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, target := range urls {
		g.Go(func() error {
			// Targets not yet started when the scan is cancelled stay
			// pending; they are filled in with a timeout result below.
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			result := s.scanTarget(gctx, target, i, len(urls))

			mu.Lock()
			completions = append(completions, result)
			mu.Unlock()

			// Worker errors never cross this boundary: failures live in
			// the result, and returning nil keeps the other scans going.
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Workers never return errors

	// Any URL without a completion was cut off by the global timeout.
	completions = fillMissing(completions, urls)

	report := Aggregate(completions, urls)
	report.StartedAt = startedAt
	report.FinishedAt = time.Now()

	s.logger.Info("scan complete",
		"targets", len(urls),
		"detected", report.DetectedCount(),
		"failed", report.FailedCount(),
		"elapsed", time.Since(startedAt),
	)

	return report
}

// scanTarget processes one target through its state machine:
// Pending -> Fetching -> Detecting -> Done, or Failed after a fetch error.
func (s *Scanner) scanTarget(ctx context.Context, target string, index, total int) model.ScanResult {
	logger := s.logger.With("target", target, "index", index+1, "total", total)

	fetchCtx := ctx
	if s.perTargetTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.perTargetTimeout)
		defer cancel()
	}

	logger.Debug("target state changed", "state", model.StateFetching)
	content, err := s.fetcher.Fetch(fetchCtx, target)
	if err != nil {
		transportErr := asTransportError(ctx, err, s.perTargetTimeout)
		logger.Debug("target state changed", "state", model.StateFailed, "kind", transportErr.Kind)
		logger.Warn("target failed", "error", transportErr)
		return model.ScanResult{URL: target, Matches: []model.Match{}, Error: transportErr}
	}

	logger.Debug("target state changed", "state", model.StateDetecting)
	matches := detector.Detect(content, s.registry)

	warnings := make([]string, 0, len(content.ScriptWarnings))
	for scriptURL, warning := range content.ScriptWarnings {
		warnings = append(warnings, scriptURL+": "+warning)
	}

	logger.Debug("target state changed", "state", model.StateDone, "matches", len(matches))
	return model.ScanResult{
		URL:      target,
		Matches:  matches,
		Warnings: warnings,
	}
}

// asTransportError normalizes a fetch error into a TransportError.
// A fetch cut short by the scan-wide cancellation is reported as a global
// timeout rather than whatever error the aborted transport surfaced.
func asTransportError(runCtx context.Context, err error, perTarget time.Duration) *model.TransportError {
	if runCtx.Err() != nil {
		return model.NewTimeoutError(0)
	}

	var transportErr *model.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.IsTimeout() {
			return model.NewTimeoutError(perTarget)
		}
		return transportErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return model.NewTimeoutError(perTarget)
	}

	// Fetcher implementations outside this module may return plain errors.
	return &model.TransportError{
		Kind:    model.TransportConnectionRefused,
		Message: err.Error(),
	}
}

// fillMissing appends a timeout-kind result for every input URL that has
// no completion, accounting for duplicate URLs in the input.
func fillMissing(completions []model.ScanResult, urls []string) []model.ScanResult {
	counts := make(map[string]int, len(urls))
	for _, u := range urls {
		counts[u]++
	}
	for i := range completions {
		counts[completions[i].URL]--
	}

	for _, u := range urls {
		for counts[u] > 0 {
			counts[u]--
			completions = append(completions, model.ScanResult{
				URL:     u,
				Matches: []model.Match{},
				Error:   model.NewTimeoutError(0),
			})
		}
	}
	return completions
}
