// Package history persists completed scan reports in a local SQLite
// database so previous runs can be listed and re-read later.
//
// Storage lives under the XDG data directory by default and is entirely
// optional: scanning works the same with history disabled.
package history
