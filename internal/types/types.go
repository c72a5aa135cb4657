// Package types provides shared types used across the zodkit codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"fmt"
	"strings"
)

// Severity is the importance of a violation.
type Severity string

// Severity level constants.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities for display and fail-on checks. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ParseSeverity converts a string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return "", fmt.Errorf("invalid severity %q: valid values are error, warning, info", s)
	}
}

// Category groups rules for report counts.
type Category string

// Category constants. Anything outside this set is reported as CategoryOther.
const (
	CategoryValidation    Category = "validation"
	CategoryTypeSafety    Category = "type-safety"
	CategoryDocumentation Category = "documentation"
	CategoryComplexity    Category = "complexity"
	CategoryBestPractice  Category = "best-practice"
	CategoryOther         Category = "other"
)

// Categories lists the fixed category taxonomy in display order.
var Categories = []Category{
	CategoryValidation,
	CategoryTypeSafety,
	CategoryDocumentation,
	CategoryComplexity,
	CategoryBestPractice,
	CategoryOther,
}

// Normalize maps unknown categories to CategoryOther.
func (c Category) Normalize() Category {
	switch c {
	case CategoryValidation, CategoryTypeSafety, CategoryDocumentation, CategoryComplexity, CategoryBestPractice:
		return c
	default:
		return CategoryOther
	}
}

// SchemaRecord identifies one schema declaration inside a source file.
// Records are produced by an extractor and must not be modified by rules.
type SchemaRecord struct {
	Name         string
	FilePath     string
	StartLine    int
	StartColumn  int
	EndLine      int
	SourceText   string
	FieldCount   int
	NestingDepth int
}

// Violation is one rule finding.
type Violation struct {
	RuleID      string   `json:"rule_id" yaml:"rule_id"`
	SchemaName  string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	FilePath    string   `json:"file" yaml:"file"`
	Line        int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column      int      `json:"column,omitempty" yaml:"column,omitempty"`
	Message     string   `json:"message" yaml:"message"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Category    Category `json:"category" yaml:"category"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	AutoFixable bool     `json:"auto_fixable" yaml:"auto_fixable"`
}

// IsGlobal reports whether the violation is not tied to a line.
func (v Violation) IsGlobal() bool {
	return v.Line < 1
}

// DiagnosticKind classifies engine-level diagnostics.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagRuleFailure       DiagnosticKind = "rule-failure"
	DiagUnterminatedBlock DiagnosticKind = "unterminated-block"
	DiagStrayBlockEnd     DiagnosticKind = "stray-block-end"
	DiagLineOutOfRange    DiagnosticKind = "line-out-of-range"
	DiagExtractFailure    DiagnosticKind = "extract-failure"
)

// EngineDiagnostic is a non-fatal observation made while running rules.
type EngineDiagnostic struct {
	Kind       DiagnosticKind `json:"kind" yaml:"kind"`
	FilePath   string         `json:"file" yaml:"file"`
	RuleID     string         `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	SchemaName string         `json:"schema,omitempty" yaml:"schema,omitempty"`
	Line       int            `json:"line,omitempty" yaml:"line,omitempty"`
	Message    string         `json:"message" yaml:"message"`
}

// String formats the diagnostic for console output.
func (d EngineDiagnostic) String() string {
	loc := d.FilePath
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.FilePath, d.Line)
	}
	return fmt.Sprintf("%s: [%s] %s", loc, d.Kind, d.Message)
}
