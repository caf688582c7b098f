// Package detector applies the signature registry to fetched content.
//
// Detection is purely textual: no DOM parsing, no JavaScript execution.
// Detect performs no I/O and has no side effects, so it is safe to invoke
// concurrently from multiple scan workers sharing one registry.
package detector
