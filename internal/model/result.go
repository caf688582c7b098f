package model

import "time"

// TargetState tracks a target's progress through the scan.
// The lifecycle is Pending -> Fetching -> Detecting -> Done, or
// Pending -> Fetching -> Failed when the fetch fails entirely.
type TargetState int

const (
	// StatePending means the target has not been picked up by a worker yet.
	StatePending TargetState = iota

	// StateFetching means the worker is retrieving the target's content.
	StateFetching

	// StateDetecting means fetched content is being matched against the
	// signature registry.
	StateDetecting

	// StateDone means the target completed with a full result.
	StateDone

	// StateFailed means the fetch failed and a transport error was recorded.
	StateFailed
)

// String returns a human-readable representation of the target state.
func (s TargetState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFetching:
		return "fetching"
	case StateDetecting:
		return "detecting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScanResult is the outcome for a single target.
// It is created by exactly one worker and is immutable once handed to
// the aggregator.
//
// Invariant: a result never carries both a transport error and matches.
// Detection only runs over content that was successfully fetched.
type ScanResult struct {
	// URL is the target URL as it appeared in the input list.
	URL string `json:"url"`

	// Matches contains the detected providers. Empty with a nil Error
	// means "fetched, nothing detected".
	Matches []Match `json:"matches"`

	// Error is set when the fetch failed entirely. It is nil for
	// successful targets even if some script sub-fetches failed.
	Error *TransportError `json:"error,omitempty"`

	// Warnings lists non-fatal problems encountered for this target,
	// such as script sub-fetches that failed.
	Warnings []string `json:"warnings,omitempty"`
}

// Failed returns true if the target's fetch failed entirely.
func (r *ScanResult) Failed() bool {
	return r.Error != nil
}

// Providers returns the distinct provider names found for this target,
// in match order.
func (r *ScanResult) Providers() []string {
	seen := make(map[string]bool, len(r.Matches))
	providers := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		if seen[m.Provider] {
			continue
		}
		seen[m.Provider] = true
		providers = append(providers, m.Provider)
	}
	return providers
}

// ScanReport aggregates the results of one scan invocation.
// Results appear in the same order as the input URL list regardless of
// completion order. A fresh report is created per invocation; the report
// itself is not persisted (the history package stores a copy separately).
type ScanReport struct {
	// StartedAt is when the scan began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last result was collected.
	FinishedAt time.Time `json:"finished_at"`

	// Results holds exactly one entry per input URL, in input order.
	Results []ScanResult `json:"results"`
}

// FailedCount returns the number of targets that failed to fetch.
func (r *ScanReport) FailedCount() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Failed() {
			n++
		}
	}
	return n
}

// DetectedCount returns the number of targets with at least one match.
func (r *ScanReport) DetectedCount() int {
	n := 0
	for i := range r.Results {
		if len(r.Results[i].Matches) > 0 {
			n++
		}
	}
	return n
}
