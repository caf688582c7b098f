// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// Scan logs routinely include request headers and URLs for targets that
// sit behind authentication. The SecureHandler masks values that look
// like credentials (Authorization headers, cookies, API keys, JWTs)
// before they reach the underlying handler, so verbose logs can be
// shared without leaking secrets.
package log
