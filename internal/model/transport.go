package model

import (
	"fmt"
	"time"
)

// TransportKind classifies a network-level failure while fetching a target.
//
// Design decision: We use string constants rather than iota because the
// kind is serialized into JSON reports and the database, and stable,
// human-readable values survive schema evolution better than integers.
type TransportKind string

// Transport error kinds.
const (
	// TransportDNSFailure indicates the hostname could not be resolved.
	TransportDNSFailure TransportKind = "dns_failure"

	// TransportConnectionRefused indicates the TCP connection was refused.
	TransportConnectionRefused TransportKind = "connection_refused"

	// TransportTLSError indicates the TLS handshake or certificate
	// verification failed.
	TransportTLSError TransportKind = "tls_error"

	// TransportHTTPStatus indicates the server answered with a non-success
	// HTTP status code. The code is preserved in TransportError.StatusCode.
	TransportHTTPStatus TransportKind = "http_status"

	// TransportTimeout indicates the per-target deadline expired or the
	// scan's global timeout cancelled the fetch before it completed.
	TransportTimeout TransportKind = "timeout"
)

// TransportError is a classified per-target fetch failure.
// It is recorded in the target's ScanResult and never aborts the scan;
// all kinds are treated uniformly as "target failed" but the kind is
// preserved for observability.
type TransportError struct {
	// Kind is the failure classification.
	Kind TransportKind `json:"kind"`

	// StatusCode is the HTTP status code for TransportHTTPStatus errors.
	// Zero for all other kinds.
	StatusCode int `json:"status_code,omitempty"`

	// Message is the underlying error text.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Kind == TransportHTTPStatus && e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsTimeout returns true if the error is a timeout-kind failure.
func (e *TransportError) IsTimeout() bool {
	return e.Kind == TransportTimeout
}

// NewTimeoutError creates a TransportTimeout error for a target that did
// not complete within the given duration. A zero duration indicates the
// global scan deadline rather than a per-target one.
func NewTimeoutError(d time.Duration) *TransportError {
	msg := "scan cancelled by global timeout"
	if d > 0 {
		msg = fmt.Sprintf("target did not complete within %s", d)
	}
	return &TransportError{Kind: TransportTimeout, Message: msg}
}
