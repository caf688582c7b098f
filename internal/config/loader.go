package config

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LoadTargetsFile reads a URL list file: one URL per line, blank lines and
// lines starting with '#' ignored. Every URL is normalized with
// EnsureScheme before being returned.
func LoadTargetsFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read target list %s: %w", path, err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, EnsureScheme(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list %s: %w", path, err)
	}

	return targets, nil
}

// EnsureScheme prepends "https://" to a URL that has no scheme.
// Users commonly write bare hostnames in target lists; https is the only
// sensible default for a tool probing authentication providers.
func EnsureScheme(target string) string {
	if u, err := url.Parse(target); err == nil && u.Scheme != "" {
		return target
	}
	return "https://" + target
}

// FindProvidersFile searches for the providers rule file in the following
// order:
//  1. If providersPath is specified, use it directly
//  2. Look for providers.yaml in the current directory
//  3. Look for providers.yaml in the XDG config directory
//
// Returns the path to the rule file if found, or empty string if not found.
func FindProvidersFile(providersPath string) string {
	if providersPath != "" {
		if _, err := os.Stat(providersPath); err == nil {
			return providersPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdProviders := filepath.Join(cwd, DefaultProvidersFile)
		if _, err := os.Stat(cwdProviders); err == nil {
			return cwdProviders
		}
	}

	xdgProviders := filepath.Join(XDGConfigDir(), DefaultProvidersFile)
	if _, err := os.Stat(xdgProviders); err == nil {
		return xdgProviders
	}

	return ""
}
