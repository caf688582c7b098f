// Package fetcher retrieves target content for detection.
//
// For each target the fetcher downloads the HTML body, extracts the
// <script src> URLs it references, and downloads those script bodies
// concurrently. Script sub-fetch failures are recorded as warnings on the
// returned content; only a failure to retrieve the page itself fails the
// target.
//
// All failures are classified into model.TransportError kinds so that the
// scanner can preserve the failure kind in the per-target result without
// inspecting raw transport errors itself.
package fetcher
