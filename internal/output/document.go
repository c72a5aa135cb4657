package output

import (
	"time"

	"github.com/dotcommander/zodkit/internal/report"
	"github.com/dotcommander/zodkit/internal/types"
)

// Document is the machine-readable report shared by the JSON and YAML formatters.
type Document struct {
	Header      Header                   `json:"header" yaml:"header"`
	Summary     Summary                  `json:"summary" yaml:"summary"`
	Violations  []types.Violation        `json:"violations" yaml:"violations"`
	Diagnostics []types.EngineDiagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Header contains report metadata
type Header struct {
	Tool      string `json:"tool" yaml:"tool"`
	Version   string `json:"version" yaml:"version"`
	RunID     string `json:"run_id" yaml:"run_id"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Summary contains summary statistics
type Summary struct {
	Files           int                    `json:"files" yaml:"files"`
	Violations      int                    `json:"violations" yaml:"violations"`
	Errors          int                    `json:"errors" yaml:"errors"`
	Warnings        int                    `json:"warnings" yaml:"warnings"`
	Infos           int                    `json:"infos" yaml:"infos"`
	AutoFixable     int                    `json:"auto_fixable" yaml:"auto_fixable"`
	Suppressed      int                    `json:"suppressed" yaml:"suppressed"`
	BaselineIgnored int                    `json:"baseline_ignored" yaml:"baseline_ignored"`
	ByCategory      map[types.Category]int `json:"by_category" yaml:"by_category"`
}

// NewDocument converts a run report into its serializable form.
func NewDocument(r *report.RunReport, version string) Document {
	timestamp := ""
	if !r.GeneratedAt.IsZero() {
		timestamp = r.GeneratedAt.Format(time.RFC3339)
	}
	return Document{
		Header: Header{
			Tool:      "zodkit",
			Version:   version,
			RunID:     r.RunID,
			Timestamp: timestamp,
		},
		Summary: Summary{
			Files:           r.Files,
			Violations:      r.Total(),
			Errors:          r.BySeverity[types.SeverityError],
			Warnings:        r.BySeverity[types.SeverityWarning],
			Infos:           r.BySeverity[types.SeverityInfo],
			AutoFixable:     len(r.AutoFixable),
			Suppressed:      r.Suppressed,
			BaselineIgnored: r.BaselineIgnored,
			ByCategory:      r.ByCategory,
		},
		Violations:  r.Violations,
		Diagnostics: r.Diagnostics,
	}
}
