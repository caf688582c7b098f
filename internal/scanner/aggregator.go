package scanner

import (
	"fmt"

	"github.com/scepter-sec/scepter/internal/model"
)

// Aggregate reorders unordered completions into a ScanReport whose results
// follow the original input order. It is a pure collection step: results
// are not modified, only placed.
//
// A completion for a URL that is not in the original order, or a count
// mismatch between completions and inputs, is a programmer error (the
// scanner guarantees exactly one completion per input URL), so Aggregate
// panics rather than returning a recoverable error.
func Aggregate(completions []model.ScanResult, originalOrder []string) *model.ScanReport {
	if len(completions) != len(originalOrder) {
		panic(fmt.Sprintf("scanner: %d completions for %d targets", len(completions), len(originalOrder)))
	}

	// Map each URL to its pending slot positions. A queue per URL keeps
	// duplicate input URLs well-defined: completions fill the earliest
	// remaining slot for that URL.
	slots := make(map[string][]int, len(originalOrder))
	for i, u := range originalOrder {
		slots[u] = append(slots[u], i)
	}

	results := make([]model.ScanResult, len(originalOrder))
	for _, completion := range completions {
		pending, ok := slots[completion.URL]
		if !ok || len(pending) == 0 {
			panic(fmt.Sprintf("scanner: completion for unknown target %q", completion.URL))
		}
		results[pending[0]] = completion
		slots[completion.URL] = pending[1:]
	}

	return &model.ScanReport{Results: results}
}
