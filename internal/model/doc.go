// Package model defines the core data structures used throughout SCEPTER.
//
// This package contains the following main types:
//   - FetchedContent: HTML and script bodies retrieved for one target
//   - Match: Evidence that a provider signature was found in a target's content
//   - ScanResult: The per-target outcome (matches or a transport error)
//   - ScanReport: The ordered collection of results for one scan invocation
//   - TransportError: A classified network-level failure
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (fetcher, detector, scanner, report, history)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
