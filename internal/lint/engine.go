// Package lint runs schema rules over source files and applies suppression
// directives to the results.
package lint

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/dotcommander/zodkit/internal/rules"
	"github.com/dotcommander/zodkit/internal/suppress"
	"github.com/dotcommander/zodkit/internal/types"
)

// FileInput is one file handed to the engine: its text and the schema
// records extracted from that same text.
type FileInput struct {
	Path    string
	Text    string
	Records []types.SchemaRecord
}

// FileResult holds what the engine produced for one file.
type FileResult struct {
	Path        string
	Violations  []types.Violation
	Suppressed  int
	Diagnostics []types.EngineDiagnostic
}

// Engine evaluates a fixed registry of rules. It holds no per-file state and
// is safe for concurrent use.
type Engine struct {
	reg    *rules.Registry
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine for the rules in reg.
func NewEngine(reg *rules.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		reg:    reg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunFile parses the suppression directives in in.Text and runs every rule
// on every record.
func (e *Engine) RunFile(in FileInput) FileResult {
	return e.RunFileWithIndex(in, suppress.Parse(in.Text))
}

// candidate is a violation plus the registration order of its rule, kept
// for the final sort.
type candidate struct {
	v     types.Violation
	order int
}

// RunFileWithIndex is RunFile with a pre-built suppression index.
func (e *Engine) RunFileWithIndex(in FileInput, idx *suppress.Index) FileResult {
	res := FileResult{Path: in.Path}
	src := rules.NewSourceContext(in.Path, in.Text)
	lineCount := src.LineCount()
	if idx != nil {
		lineCount = idx.Lines
	}

	res.Diagnostics = append(res.Diagnostics, indexDiagnostics(in.Path, idx)...)
	suppressible := !idx.Empty()

	var kept []candidate
	for _, rec := range in.Records {
		for order, rule := range e.reg.Rules() {
			findings, err := e.check(rule, rec, src)
			if err != nil {
				e.logger.Debug("rule failed", "file", in.Path, "rule", rule.ID, "schema", rec.Name, "error", err)
				res.Diagnostics = append(res.Diagnostics, types.EngineDiagnostic{
					Kind:       types.DiagRuleFailure,
					FilePath:   in.Path,
					RuleID:     rule.ID,
					SchemaName: rec.Name,
					Line:       rec.StartLine,
					Message:    err.Error(),
				})
				continue
			}

			for _, f := range findings {
				v := newViolation(rule, rec, in.Path, f)
				if v.Line < 0 || v.Line > lineCount {
					res.Diagnostics = append(res.Diagnostics, types.EngineDiagnostic{
						Kind:       types.DiagLineOutOfRange,
						FilePath:   in.Path,
						RuleID:     rule.ID,
						SchemaName: rec.Name,
						Line:       v.Line,
						Message:    fmt.Sprintf("reported line %d is outside 1..%d; reporting as a file-level violation", v.Line, lineCount),
					})
					v.Line, v.Column = 0, 0
				}

				if suppressible {
					if kind, ok := idx.Match(v.RuleID, v.Line); ok {
						e.logger.Debug("violation suppressed", "file", in.Path, "rule", v.RuleID, "line", v.Line, "directive", kind.String())
						res.Suppressed++
						continue
					}
				}
				kept = append(kept, candidate{v: v, order: order})
			}
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].v.Line != kept[j].v.Line {
			return kept[i].v.Line < kept[j].v.Line
		}
		return kept[i].order < kept[j].order
	})
	res.Violations = make([]types.Violation, 0, len(kept))
	for _, c := range kept {
		res.Violations = append(res.Violations, c.v)
	}

	return res
}

// check runs one rule and converts a panic into an error.
func (e *Engine) check(rule rules.Rule, rec types.SchemaRecord, src *rules.SourceContext) (findings []rules.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings, err = nil, fmt.Errorf("rule panicked: %v", r)
		}
	}()
	return rule.Check(rec, src)
}

// newViolation stamps rule metadata onto a finding.
func newViolation(rule rules.Rule, rec types.SchemaRecord, path string, f rules.Finding) types.Violation {
	return types.Violation{
		RuleID:      rule.ID,
		SchemaName:  rec.Name,
		FilePath:    path,
		Line:        f.Line,
		Column:      f.Column,
		Message:     f.Message,
		Severity:    rule.Severity,
		Category:    rule.Category.Normalize(),
		Suggestions: append([]string(nil), f.Suggestions...),
		AutoFixable: rule.AutoFixable,
	}
}

// indexDiagnostics reports block directives that did not pair up.
func indexDiagnostics(path string, idx *suppress.Index) []types.EngineDiagnostic {
	if idx == nil {
		return nil
	}
	var diags []types.EngineDiagnostic
	for _, line := range idx.Unterminated {
		diags = append(diags, types.EngineDiagnostic{
			Kind:     types.DiagUnterminatedBlock,
			FilePath: path,
			Line:     line,
			Message:  "zodkit-ignore-start has no matching zodkit-ignore-end; it suppresses nothing",
		})
	}
	for _, line := range idx.StrayEnds {
		diags = append(diags, types.EngineDiagnostic{
			Kind:     types.DiagStrayBlockEnd,
			FilePath: path,
			Line:     line,
			Message:  "zodkit-ignore-end has no open zodkit-ignore-start",
		})
	}
	return diags
}
