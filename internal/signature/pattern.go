package signature

import (
	"fmt"
	"regexp"
	"strings"
)

// GroupMode selects how a Group combines its sub-patterns.
type GroupMode int

const (
	// GroupAND requires every sub-pattern to match.
	GroupAND GroupMode = iota

	// GroupOR requires at least one sub-pattern to match.
	GroupOR
)

// String returns a human-readable representation of the group mode.
func (m GroupMode) String() string {
	if m == GroupAND {
		return "and"
	}
	return "or"
}

// Pattern tests a unit of text for provider evidence.
//
// Design decision: We use a small interface over a tagged set of concrete
// types (Literal, Regex, Group) rather than runtime type switching in the
// detector. The detector only needs the match capability and a description
// for evidence reporting.
type Pattern interface {
	// Matches reports whether the pattern is found in text.
	Matches(text string) bool

	// Describe returns a short human-readable description of the pattern,
	// used as match evidence.
	Describe() string
}

// Literal matches when its value appears in the text as a case-insensitive
// substring.
type Literal struct {
	// Value is the substring to look for.
	Value string
}

// Matches reports whether the literal appears in text, ignoring case.
func (l Literal) Matches(text string) bool {
	if l.Value == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(l.Value))
}

// Describe returns the literal value.
func (l Literal) Describe() string {
	return fmt.Sprintf("literal %q", l.Value)
}

// Regex matches when its compiled expression finds at least one occurrence.
// The expression is compiled once at registry load time, not per match,
// because the registry is read by many concurrent workers.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles expr into a Regex pattern.
// Expressions are matched case-insensitively unless the expression sets
// its own flags, mirroring the case-insensitive literal matching.
func NewRegex(expr string) (Regex, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Regex{}, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, expr, err)
	}
	return Regex{re: re}, nil
}

// MustRegex compiles expr and panics on error.
// Only used for built-in signatures, which are covered by tests.
func MustRegex(expr string) Regex {
	r, err := NewRegex(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Matches reports whether the expression occurs in text.
func (r Regex) Matches(text string) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(text)
}

// Describe returns the source expression.
func (r Regex) Describe() string {
	if r.re == nil {
		return "regex (empty)"
	}
	return fmt.Sprintf("regex %q", strings.TrimPrefix(r.re.String(), "(?i)"))
}

// Group combines sub-patterns with AND or OR semantics.
// Groups may nest: a sub-pattern can itself be a Group.
type Group struct {
	// Mode selects AND or OR combination.
	Mode GroupMode

	// Patterns are the sub-patterns to combine. An empty group never
	// matches.
	Patterns []Pattern
}

// Matches applies the group's mode over its sub-patterns.
func (g Group) Matches(text string) bool {
	if len(g.Patterns) == 0 {
		return false
	}
	for _, p := range g.Patterns {
		matched := p.Matches(text)
		if g.Mode == GroupAND && !matched {
			return false
		}
		if g.Mode == GroupOR && matched {
			return true
		}
	}
	return g.Mode == GroupAND
}

// Describe returns the descriptions of the sub-patterns joined by the mode.
func (g Group) Describe() string {
	parts := make([]string, 0, len(g.Patterns))
	for _, p := range g.Patterns {
		parts = append(parts, p.Describe())
	}
	return fmt.Sprintf("%s(%s)", g.Mode, strings.Join(parts, ", "))
}
