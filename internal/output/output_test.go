package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/zodkit/internal/report"
	"github.com/dotcommander/zodkit/internal/types"
)

func sampleReport() *report.RunReport {
	r := report.Aggregate(map[string][]types.Violation{
		"src/user.ts": {
			{
				RuleID: "no-any", SchemaName: "User", FilePath: "src/user.ts", Line: 4, Column: 9,
				Message: "Avoid z.any()", Severity: types.SeverityError, Category: types.CategoryTypeSafety,
				Suggestions: []string{"Replace z.any() with a concrete schema"},
			},
			{
				RuleID: "require-description", SchemaName: "User", FilePath: "src/user.ts", Line: 2, Column: 14,
				Message: "Schema has no description", Severity: types.SeverityInfo,
				Category: types.CategoryDocumentation, AutoFixable: true,
			},
		},
		"src/order.ts": {
			{
				RuleID: "max-complexity", SchemaName: "Order", FilePath: "src/order.ts",
				Message: "Schema | Order is big", Severity: types.SeverityWarning, Category: types.CategoryComplexity,
			},
		},
	})
	r.Suppressed = 3
	r.Stamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	r.AddDiagnostics(types.EngineDiagnostic{
		Kind: types.DiagStrayBlockEnd, FilePath: "src/order.ts", Line: 7,
		Message: "zodkit-ignore-end has no open zodkit-ignore-start",
	})
	return r
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, false, false, false).Format(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "src/user.ts")
	assert.Contains(t, out, "4:9")
	assert.Contains(t, out, "Avoid z.any()")
	assert.Contains(t, out, "no-any")
	assert.Contains(t, out, "3 problems")
	assert.Contains(t, out, "1 error,")
	assert.Contains(t, out, "1 warning,")
	assert.Contains(t, out, "3 suppressed")
	assert.Contains(t, out, "1 auto-fixable")
	assert.Contains(t, out, "stray-block-end")
	assert.NotContains(t, out, "Replace z.any()")
	assert.NotContains(t, out, "\x1b[")

	// within a file, lines are in order
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("2:14")), bytes.Index(buf.Bytes(), []byte("4:9")))
}

func TestConsoleFormatterVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, false, true, false).Format(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "→ Replace z.any() with a concrete schema")
	assert.Contains(t, out, "type-safety")
	assert.Contains(t, out, "complexity")
}

func TestConsoleFormatterQuiet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, true, false, false).Format(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Avoid z.any()")
	assert.NotContains(t, out, "max-complexity")
	assert.NotContains(t, out, "problems")
	assert.NotContains(t, out, "stray-block-end")
}

func TestConsoleFormatterClean(t *testing.T) {
	r := report.Aggregate(map[string][]types.Violation{"a.ts": nil, "b.ts": nil})
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, false, false, false).Format(r))
	assert.Contains(t, buf.String(), "✓ No problems in 2 files")
}

func TestConsoleFormatterGlobalViolation(t *testing.T) {
	r := report.Aggregate(map[string][]types.Violation{
		"a.ts": {{RuleID: "r", FilePath: "a.ts", Message: "whole file", Severity: types.SeverityWarning}},
	})
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, false, false, false).Format(r))
	assert.Contains(t, buf.String(), "  -        ")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, true, "1.2.3").Format(sampleReport()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "zodkit", doc.Header.Tool)
	assert.Equal(t, "1.2.3", doc.Header.Version)
	assert.Equal(t, "2026-03-01T12:00:00Z", doc.Header.Timestamp)
	assert.Len(t, doc.Header.RunID, 36)
	assert.Equal(t, 3, doc.Summary.Violations)
	assert.Equal(t, 1, doc.Summary.Errors)
	assert.Equal(t, 1, doc.Summary.AutoFixable)
	assert.Equal(t, 3, doc.Summary.Suppressed)
	assert.Equal(t, 1, doc.Summary.ByCategory[types.CategoryComplexity])
	require.Len(t, doc.Violations, 3)
	assert.Equal(t, "no-any", doc.Violations[0].RuleID)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, types.DiagStrayBlockEnd, doc.Diagnostics[0].Kind)
}

func TestJSONFormatterCompact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, false, "dev").Format(report.Aggregate(nil)))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), `"violations":[]`)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf, "1.2.3").Format(sampleReport()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "1.2.3", doc.Header.Version)
	assert.Equal(t, 3, doc.Summary.Violations)
	require.Len(t, doc.Violations, 3)
	assert.Equal(t, "src/order.ts", doc.Violations[1].FilePath)
	assert.Contains(t, buf.String(), "rule_id: no-any")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf, false, "/repo").Format(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "# Zodkit Report")
	assert.Contains(t, out, "**Project:** /repo")
	assert.Contains(t, out, "| Files Scanned | 2 |")
	assert.Contains(t, out, "| Suppressed | 3 |")
	assert.Contains(t, out, "| type-safety | 1 |")
	assert.Contains(t, out, "### src/user.ts")
	assert.Contains(t, out, "| 4 | ❌ error | `no-any` | User | Avoid z.any() |")
	assert.Contains(t, out, "| - | ⚠️ warning | `max-complexity` | Order | Schema \\| Order is big |")
	assert.Contains(t, out, "## Notes")
	assert.Contains(t, out, "✗ 1 errors found")
	assert.NotContains(t, out, "| validation |")
}

func TestMarkdownFormatterClean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf, false, "").Format(report.Aggregate(nil)))
	out := buf.String()
	assert.Contains(t, out, "*No problems found.*")
	assert.Contains(t, out, "✓ No errors")
	assert.NotContains(t, out, "By Category")
}

func TestCreateAnchor(t *testing.T) {
	assert.Equal(t, "srcusert", createAnchor("src/user.t"))
	assert.Equal(t, "my-file", createAnchor("My File"))
}
