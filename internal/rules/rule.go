// Package rules defines the rule contract for schema linting and the
// built-in example rules.
//
// A rule is static metadata plus a Checker. Checkers must be pure functions of
// (record, source): they must not mutate the record or keep per-file state,
// and they should return early when the record already satisfies the rule
// before doing any expensive analysis.
package rules

import (
	"strings"

	"github.com/dotcommander/zodkit/internal/types"
)

// Meta is the static description of a rule.
type Meta struct {
	ID          string         `validate:"required,ruleid"`
	Description string         `validate:"required"`
	Severity    types.Severity `validate:"required,oneof=error warning info"`
	Category    types.Category `validate:"required"`
	AutoFixable bool
}

// Finding is a rule result before the engine stamps rule metadata onto it.
// Line and Column are absolute, 1-based positions in the file.
type Finding struct {
	Line        int
	Column      int
	Message     string
	Suggestions []string
}

// Checker is the single capability a rule provides.
type Checker interface {
	Check(rec types.SchemaRecord, src *SourceContext) ([]Finding, error)
}

// Rule pairs metadata with its checker.
type Rule struct {
	Meta
	Checker
}

// SourceContext is the read-only file context passed to every check.
type SourceContext struct {
	FilePath string
	Text     string
	lines    []string
}

// NewSourceContext creates a context for a file. Line endings are normalized
// the same way the suppression parser normalizes them.
func NewSourceContext(path, text string) *SourceContext {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return &SourceContext{
		FilePath: path,
		Text:     text,
		lines:    strings.Split(normalized, "\n"),
	}
}

// LineCount returns the number of physical lines.
func (s *SourceContext) LineCount() int {
	return len(s.lines)
}

// Line returns the text of 1-based line n, or "" when out of range.
func (s *SourceContext) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// Position converts a byte offset inside rec.SourceText to an absolute line and column.
func Position(rec types.SchemaRecord, offset int) (line, col int) {
	offset = min(max(offset, 0), len(rec.SourceText))
	prefix := rec.SourceText[:offset]
	nl := strings.Count(prefix, "\n")
	if nl == 0 {
		return rec.StartLine, max(rec.StartColumn, 1) + offset
	}
	return rec.StartLine + nl, offset - strings.LastIndexByte(prefix, '\n')
}
