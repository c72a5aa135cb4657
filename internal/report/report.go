// Package report aggregates per-file violations into a run report.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dotcommander/zodkit/internal/types"
)

// RunReport is the aggregated outcome of one lint run.
type RunReport struct {
	RunID           string                   `json:"run_id" yaml:"run_id"`
	GeneratedAt     time.Time                `json:"generated_at" yaml:"generated_at"`
	Files           int                      `json:"files" yaml:"files"`
	Violations      []types.Violation        `json:"violations" yaml:"violations"`
	BySeverity      map[types.Severity]int   `json:"by_severity" yaml:"by_severity"`
	ByCategory      map[types.Category]int   `json:"by_category" yaml:"by_category"`
	AutoFixable     []types.Violation        `json:"auto_fixable,omitempty" yaml:"auto_fixable,omitempty"`
	Suppressed      int                      `json:"suppressed" yaml:"suppressed"`
	BaselineIgnored int                      `json:"baseline_ignored,omitempty" yaml:"baseline_ignored,omitempty"`
	Diagnostics     []types.EngineDiagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Aggregate flattens per-file violations into a report. The result does not
// depend on map iteration order. RunID and GeneratedAt are left for the
// caller to stamp.
func Aggregate(perFile map[string][]types.Violation) *RunReport {
	r := &RunReport{
		Files:      len(perFile),
		BySeverity: map[types.Severity]int{types.SeverityError: 0, types.SeverityWarning: 0, types.SeverityInfo: 0},
		ByCategory: make(map[types.Category]int, len(types.Categories)),
		Violations: []types.Violation{},
	}
	for _, c := range types.Categories {
		r.ByCategory[c] = 0
	}

	for _, vs := range perFile {
		r.Violations = append(r.Violations, vs...)
	}
	sort.SliceStable(r.Violations, func(i, j int) bool {
		return less(r.Violations[i], r.Violations[j])
	})

	for _, v := range r.Violations {
		r.BySeverity[v.Severity]++
		r.ByCategory[v.Category.Normalize()]++
		if v.AutoFixable {
			r.AutoFixable = append(r.AutoFixable, v)
		}
	}

	return r
}

// less orders violations by severity (most severe first), then file, line,
// column and rule id.
func less(a, b types.Violation) bool {
	if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
		return ra > rb
	}
	if a.FilePath != b.FilePath {
		return a.FilePath < b.FilePath
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	if a.Column != b.Column {
		return a.Column < b.Column
	}
	if a.RuleID != b.RuleID {
		return a.RuleID < b.RuleID
	}
	return a.Message < b.Message
}

// Stamp sets a fresh run id and the generation time.
func (r *RunReport) Stamp(now time.Time) {
	r.RunID = uuid.NewString()
	r.GeneratedAt = now.UTC()
}

// AddDiagnostics appends engine diagnostics, ordered by file then line.
func (r *RunReport) AddDiagnostics(diags ...types.EngineDiagnostic) {
	r.Diagnostics = append(r.Diagnostics, diags...)
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i], r.Diagnostics[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.Line < b.Line
	})
}

// HasErrors reports whether any violation has error severity.
func (r *RunReport) HasErrors() bool {
	return r.BySeverity[types.SeverityError] > 0
}

// ShouldFail reports whether any violation is at or above threshold.
func (r *RunReport) ShouldFail(threshold types.Severity) bool {
	floor := threshold.Rank()
	if floor == 0 {
		floor = types.SeverityError.Rank()
	}
	for _, v := range r.Violations {
		if v.Severity.Rank() >= floor {
			return true
		}
	}
	return false
}

// ExitCode returns 1 when the report fails threshold, 0 otherwise.
func (r *RunReport) ExitCode(threshold types.Severity) int {
	if r.ShouldFail(threshold) {
		return 1
	}
	return 0
}

// Total returns the number of reported violations.
func (r *RunReport) Total() int {
	return len(r.Violations)
}
