package signature

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleDocument is the structure of a providers rule file.
//
// Two shapes are accepted. The structured form:
//
//	providers:
//	  - name: Okta
//	    htmlPatterns:
//	      - literal: okta.com
//	      - regex: OktaAuth
//	    scriptPatterns:
//	      - regex: OktaSignIn
//	    confidenceWeight: 1.5
//
// and the legacy shorthand, a mapping from provider name to a bare list of
// regular expressions that are applied to both HTML and script content:
//
//	Okta:
//	  - okta\.com
//	  - OktaSignIn
type ruleDocument struct {
	Providers []ruleEntry `yaml:"providers"`
}

// ruleEntry is a single structured provider rule.
type ruleEntry struct {
	Name             string     `yaml:"name"`
	HTMLPatterns     []ruleNode `yaml:"htmlPatterns"`
	ScriptPatterns   []ruleNode `yaml:"scriptPatterns"`
	ConfidenceWeight float64    `yaml:"confidenceWeight"`
}

// ruleNode is one pattern in a rule file. A plain string is treated as a
// regular expression (matching the legacy shorthand semantics); a mapping
// selects the pattern form explicitly with one of the keys "literal",
// "regex", "anyOf", or "allOf".
type ruleNode struct {
	Literal string     `yaml:"literal"`
	Regex   string     `yaml:"regex"`
	AnyOf   []ruleNode `yaml:"anyOf"`
	AllOf   []ruleNode `yaml:"allOf"`

	// scalar holds the bare-string form when the node is not a mapping.
	scalar string
}

// UnmarshalYAML accepts both the bare-string and mapping forms.
func (n *ruleNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		n.scalar = value.Value
		return nil
	}

	type plain ruleNode
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = ruleNode(p)
	return nil
}

// compile converts a rule node into a Pattern, compiling regular
// expressions eagerly so matching never compiles at scan time.
func (n *ruleNode) compile() (Pattern, error) {
	switch {
	case n.scalar != "":
		return NewRegex(n.scalar)
	case n.Literal != "":
		return Literal{Value: n.Literal}, nil
	case n.Regex != "":
		return NewRegex(n.Regex)
	case len(n.AnyOf) > 0:
		sub, err := compileNodes(n.AnyOf)
		if err != nil {
			return nil, err
		}
		return Group{Mode: GroupOR, Patterns: sub}, nil
	case len(n.AllOf) > 0:
		sub, err := compileNodes(n.AllOf)
		if err != nil {
			return nil, err
		}
		return Group{Mode: GroupAND, Patterns: sub}, nil
	default:
		return nil, fmt.Errorf("%w: empty pattern entry", ErrInvalidPattern)
	}
}

// compileNodes compiles a list of rule nodes.
func compileNodes(nodes []ruleNode) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(nodes))
	for i := range nodes {
		p, err := nodes[i].compile()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// ParseRuleFile reads and parses a providers rule file into signatures.
// The returned signatures preserve the file's declaration order so that
// Load can apply deterministic, last-loaded-wins merging.
func ParseRuleFile(path string) ([]Signature, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided rules path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}
	sigs, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return sigs, nil
}

// ParseRules parses YAML rule content into signatures. A document with a
// top-level "providers" key uses the structured form; any other mapping is
// treated as the legacy shorthand.
func ParseRules(data []byte) ([]Signature, error) {
	// yaml.Node preserves key order, which a plain map would not.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	if hasProvidersKey(&root) {
		var doc ruleDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}
		return parseStructured(doc.Providers)
	}

	return parseLegacy(&root)
}

// hasProvidersKey reports whether the document's top-level mapping contains
// a "providers" key. An empty or commented-out providers list is still the
// structured form, not a shorthand rule named "providers".
func hasProvidersKey(root *yaml.Node) bool {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return false
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == "providers" {
			return true
		}
	}
	return false
}

// parseStructured converts structured rule entries into signatures.
func parseStructured(entries []ruleEntry) ([]Signature, error) {
	sigs := make([]Signature, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			return nil, ErrMissingName
		}

		htmlPatterns, err := compileNodes(entry.HTMLPatterns)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", entry.Name, err)
		}
		scriptPatterns, err := compileNodes(entry.ScriptPatterns)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", entry.Name, err)
		}

		sig := Signature{
			Name:             entry.Name,
			HTMLPatterns:     htmlPatterns,
			ScriptPatterns:   scriptPatterns,
			ConfidenceWeight: entry.ConfidenceWeight,
		}
		if err := sig.Validate(); err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// parseLegacy converts the shorthand mapping form into signatures.
// Each expression is applied to both HTML and script content, which is
// what the shorthand always meant.
func parseLegacy(root *yaml.Node) ([]Signature, error) {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty rule document", ErrInvalidPattern)
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: rule document must be a mapping or a providers list", ErrInvalidPattern)
	}

	sigs := make([]Signature, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		name := mapping.Content[i].Value
		if name == "" {
			return nil, ErrMissingName
		}

		var exprs []string
		if err := mapping.Content[i+1].Decode(&exprs); err != nil {
			return nil, fmt.Errorf("provider %q: %w: %w", name, ErrInvalidPattern, err)
		}

		patterns := make([]Pattern, 0, len(exprs))
		for _, expr := range exprs {
			p, err := NewRegex(expr)
			if err != nil {
				return nil, fmt.Errorf("provider %q: %w", name, err)
			}
			patterns = append(patterns, p)
		}

		sig := Signature{
			Name:           name,
			HTMLPatterns:   patterns,
			ScriptPatterns: patterns,
		}
		if err := sig.Validate(); err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}
