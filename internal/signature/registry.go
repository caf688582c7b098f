package signature

import "fmt"

// Registry holds the effective, merged set of provider signatures.
//
// The registry is built once by Load and never mutated afterwards, so it
// requires no locking even though every scan worker reads it concurrently.
type Registry struct {
	// signatures holds the merged rules in deterministic order:
	// built-in declaration order first, then user additions that did not
	// override an existing name, in their declared order.
	signatures []Signature

	// byName indexes signatures for override merging and lookups.
	byName map[string]int
}

// Load merges built-in signatures with user overrides into a Registry.
//
// Merge policy: override by exact name match. An override fully replaces
// the prior signature; there is no partial-field merging. User rules whose
// names are new are appended after the builtins in their declared order.
//
// Load fails when any signature is malformed (missing name, no patterns,
// negative weight). Regular expressions in user rules are compiled before
// Load is called (see ParseRuleFile), so a registry that loads successfully
// never compiles patterns again.
func Load(builtins, overrides []Signature) (*Registry, error) {
	r := &Registry{
		signatures: make([]Signature, 0, len(builtins)+len(overrides)),
		byName:     make(map[string]int, len(builtins)+len(overrides)),
	}

	for _, sig := range builtins {
		if err := sig.Validate(); err != nil {
			return nil, fmt.Errorf("built-in signature %q: %w", sig.Name, err)
		}
		if err := r.add(sig); err != nil {
			return nil, err
		}
	}

	for _, sig := range overrides {
		if err := sig.Validate(); err != nil {
			return nil, fmt.Errorf("user signature %q: %w", sig.Name, err)
		}
		if err := r.add(sig); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// add inserts or replaces a signature. Last-loaded-wins by name: a
// signature with a known name replaces the existing entry in place,
// preserving the original position in the ordering.
func (r *Registry) add(sig Signature) error {
	if sig.ConfidenceWeight == 0 {
		sig.ConfidenceWeight = DefaultConfidenceWeight
	}
	if i, ok := r.byName[sig.Name]; ok {
		r.signatures[i] = sig
		return nil
	}
	r.byName[sig.Name] = len(r.signatures)
	r.signatures = append(r.signatures, sig)
	return nil
}

// All returns the merged signatures in deterministic order.
// Callers must not modify the returned slice.
func (r *Registry) All() []Signature {
	return r.signatures
}

// Len returns the number of signatures in the effective registry.
func (r *Registry) Len() int {
	return len(r.signatures)
}

// Lookup returns the signature with the given name, if present.
func (r *Registry) Lookup(name string) (Signature, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Signature{}, false
	}
	return r.signatures[i], true
}
