// Package config holds the runtime configuration for SCEPTER.
//
// The Config struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state. It also
// provides XDG directory helpers, the URL-list file loader, and discovery
// of the user providers rule file.
package config
