// Package main provides the entry point for the SCEPTER CLI.
//
// SCEPTER probes websites for evidence of Multi-Factor Authentication and
// Single Sign-On providers by matching page and script content against a
// library of provider signatures.
//
// Usage:
//
//	scepter scan <url> [<url>...]
//	scepter scan --list <file>
//
// See --help for all available options.
package main

// main is the entry point for SCEPTER.
func main() {
	Execute()
}
