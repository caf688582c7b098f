// Package signature defines the provider detection rules and the registry
// that holds them.
//
// A Signature names one MFA/SSO provider and carries ordered pattern lists
// for HTML and script content. Patterns come in three forms (literal
// substring, regular expression, and AND/OR group), all sharing a single
// Matches(text) capability so the detector never inspects the concrete
// pattern type.
//
// The Registry merges the built-in signature set with user-supplied YAML
// rules (last-loaded-wins by name) and compiles every regular expression at
// load time. After Load returns, the registry is never mutated, which makes
// it safe to share across concurrent scan workers without locking.
package signature
