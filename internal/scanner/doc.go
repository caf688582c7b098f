// Package scanner drives the fetch-and-detect cycle across many targets.
//
// The Scanner runs a bounded pool of workers (errgroup with a concurrency
// limit). Each worker fetches one target under its per-target timeout,
// runs detection over the fetched content, and records a ScanResult.
// Per-target failures are isolated: a transport error is captured in that
// target's result and never aborts the scan. A global timeout cancels the
// remaining in-flight fetches cooperatively; completed targets keep their
// real results and unfinished ones are recorded with a timeout-kind error.
//
// The aggregator reorders the unordered completions into input order, so
// the final report always lists one result per input URL in the order the
// URLs were given, independent of completion order.
package scanner
