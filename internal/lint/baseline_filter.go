package lint

import (
	"github.com/dotcommander/zodkit/internal/baseline"
	"github.com/dotcommander/zodkit/internal/types"
)

// FilterResults drops violations already recorded in the baseline, in place,
// and returns how many were dropped per severity. A fingerprint recorded n
// times drops at most n violations across all results.
func FilterResults(results []FileResult, b *baseline.Baseline) (totalIgnored int, bySeverity map[types.Severity]int) {
	bySeverity = make(map[types.Severity]int)
	if b == nil {
		return 0, bySeverity // No baseline, no filtering
	}

	known := b.Matcher()
	for i := range results {
		filtered, ignored := filterViolations(results[i].Violations, known)
		results[i].Violations = filtered
		for _, v := range ignored {
			bySeverity[v.Severity]++
		}
		totalIgnored += len(ignored)
	}

	return totalIgnored, bySeverity
}

// filterViolations splits violations into kept and dropped using filter.
func filterViolations(violations []types.Violation, filter func(types.Violation) bool) (kept, dropped []types.Violation) {
	kept = make([]types.Violation, 0, len(violations))
	for _, v := range violations {
		if filter(v) {
			dropped = append(dropped, v)
		} else {
			kept = append(kept, v)
		}
	}
	return kept, dropped
}

// CollectAllViolations flattens results for baseline creation.
func CollectAllViolations(results []FileResult) []types.Violation {
	var all []types.Violation
	for _, r := range results {
		all = append(all, r.Violations...)
	}
	return all
}
