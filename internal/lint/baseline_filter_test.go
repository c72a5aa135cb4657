package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotcommander/zodkit/internal/baseline"
	"github.com/dotcommander/zodkit/internal/types"
)

func TestFilterResults(t *testing.T) {
	known := types.Violation{FilePath: "a.ts", RuleID: "no-any", SchemaName: "A", Message: "known", Severity: types.SeverityError}
	fresh := types.Violation{FilePath: "a.ts", RuleID: "no-any", SchemaName: "B", Message: "new", Severity: types.SeverityError}
	info := types.Violation{FilePath: "b.ts", RuleID: "require-description", SchemaName: "C", Message: "info", Severity: types.SeverityInfo}

	tests := []struct {
		name        string
		baseline    *baseline.Baseline
		wantIgnored int
		wantKept    int
		wantErrors  int
	}{
		{"no baseline", nil, 0, 3, 0},
		{"empty baseline", baseline.CreateBaseline(nil), 0, 3, 0},
		{"with baseline matches", baseline.CreateBaseline([]types.Violation{known, info}), 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := []FileResult{
				{Path: "a.ts", Violations: []types.Violation{known, fresh}},
				{Path: "b.ts", Violations: []types.Violation{info}},
			}

			ignored, bySeverity := FilterResults(results, tt.baseline)
			assert.Equal(t, tt.wantIgnored, ignored)
			assert.Equal(t, tt.wantErrors, bySeverity[types.SeverityError])
			assert.Len(t, CollectAllViolations(results), tt.wantKept)
		})
	}
}

func TestFilterResultsHonoursCounts(t *testing.T) {
	v := types.Violation{FilePath: "a.ts", RuleID: "no-any", SchemaName: "A", Message: `Schema "A" uses z.any(), which accepts every value`, Severity: types.SeverityError}
	b := baseline.CreateBaseline([]types.Violation{v})

	results := []FileResult{{Path: "a.ts", Violations: []types.Violation{v, v, v}}}
	ignored, bySeverity := FilterResults(results, b)
	assert.Equal(t, 1, ignored)
	assert.Equal(t, 1, bySeverity[types.SeverityError])
	assert.Len(t, results[0].Violations, 2, "occurrences beyond the recorded count are new")
}

func TestFilterResultsKeepsNewFields(t *testing.T) {
	msg := func(field string) string {
		return `Field "` + field + `" in schema "User" uses z.string() with no validation constraints`
	}
	a := types.Violation{FilePath: "a.ts", RuleID: "missing-validation", SchemaName: "User", Message: msg("a"), Severity: types.SeverityWarning}
	b := a
	b.Message = msg("b")

	results := []FileResult{{Path: "a.ts", Violations: []types.Violation{a, b}}}
	ignored, _ := FilterResults(results, baseline.CreateBaseline([]types.Violation{a}))
	assert.Equal(t, 1, ignored)
	assert.Equal(t, []types.Violation{b}, results[0].Violations)
}

func TestFilterViolations(t *testing.T) {
	vs := []types.Violation{{RuleID: "a"}, {RuleID: "b"}, {RuleID: "a"}}
	kept, dropped := filterViolations(vs, func(v types.Violation) bool { return v.RuleID == "a" })
	assert.Len(t, kept, 1)
	assert.Len(t, dropped, 2)
}
