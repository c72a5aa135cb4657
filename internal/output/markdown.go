package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dotcommander/zodkit/internal/report"
	"github.com/dotcommander/zodkit/internal/types"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	w           io.Writer
	verbose     bool
	projectRoot string
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, verbose bool, projectRoot string) *MarkdownFormatter {
	return &MarkdownFormatter{
		w:           w,
		verbose:     verbose,
		projectRoot: projectRoot,
	}
}

// Format writes the report as a Markdown document
func (f *MarkdownFormatter) Format(r *report.RunReport) error {
	var builder strings.Builder

	builder.WriteString("# Zodkit Report\n\n")
	if !r.GeneratedAt.IsZero() {
		builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	}
	if f.projectRoot != "" {
		builder.WriteString(fmt.Sprintf("**Project:** %s\n\n", f.projectRoot))
	}
	if r.RunID != "" {
		builder.WriteString(fmt.Sprintf("**Run:** `%s`\n\n", r.RunID))
	}
	builder.WriteString(strings.Repeat("-", 50) + "\n\n")

	// Summary Table
	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Count |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Files Scanned | %d |\n", r.Files))
	builder.WriteString(fmt.Sprintf("| Errors | %d |\n", r.BySeverity[types.SeverityError]))
	builder.WriteString(fmt.Sprintf("| Warnings | %d |\n", r.BySeverity[types.SeverityWarning]))
	builder.WriteString(fmt.Sprintf("| Info | %d |\n", r.BySeverity[types.SeverityInfo]))
	builder.WriteString(fmt.Sprintf("| Auto-fixable | %d |\n", len(r.AutoFixable)))
	builder.WriteString(fmt.Sprintf("| Suppressed | %d |\n", r.Suppressed))
	if r.BaselineIgnored > 0 {
		builder.WriteString(fmt.Sprintf("| Baseline | %d |\n", r.BaselineIgnored))
	}
	builder.WriteString("\n")

	if r.Total() > 0 {
		builder.WriteString("### By Category\n\n")
		builder.WriteString("| Category | Count |\n")
		builder.WriteString("|----------|-------|\n")
		for _, c := range types.Categories {
			if n := r.ByCategory[c]; n > 0 || f.verbose {
				builder.WriteString(fmt.Sprintf("| %s | %d |\n", c, n))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Detailed Results\n\n")
	if r.Total() == 0 {
		builder.WriteString("*No problems found.*\n\n")
	} else {
		f.writeFiles(&builder, r.Violations)
	}

	if len(r.Diagnostics) > 0 {
		builder.WriteString("## Notes\n\n")
		for _, d := range r.Diagnostics {
			builder.WriteString(fmt.Sprintf("- `%s` %s\n", d.Kind, escapeCell(d.String())))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Conclusion\n\n")
	if r.HasErrors() {
		builder.WriteString(fmt.Sprintf("✗ %d errors found\n", r.BySeverity[types.SeverityError]))
	} else {
		builder.WriteString("✓ No errors\n")
	}

	if _, err := io.WriteString(f.w, builder.String()); err != nil {
		return fmt.Errorf("error writing markdown: %w", err)
	}
	return nil
}

// writeFiles writes one table per file.
func (f *MarkdownFormatter) writeFiles(builder *strings.Builder, violations []types.Violation) {
	byFile := make(map[string][]types.Violation)
	var files []string
	for _, v := range violations {
		if _, ok := byFile[v.FilePath]; !ok {
			files = append(files, v.FilePath)
		}
		byFile[v.FilePath] = append(byFile[v.FilePath], v)
	}
	sort.Strings(files)

	if len(files) > 1 {
		builder.WriteString("### Files\n\n")
		for _, file := range files {
			builder.WriteString(fmt.Sprintf("- [%s](#%s)\n", file, createAnchor(file)))
		}
		builder.WriteString("\n")
	}

	for _, file := range files {
		builder.WriteString(fmt.Sprintf("### %s\n\n", file))
		builder.WriteString("| Line | Severity | Rule | Schema | Message |\n")
		builder.WriteString("|------|----------|------|--------|---------|\n")
		for _, v := range byFile[file] {
			line := "-"
			if !v.IsGlobal() {
				line = fmt.Sprintf("%d", v.Line)
			}
			builder.WriteString(fmt.Sprintf("| %s | %s %s | `%s` | %s | %s |\n",
				line, severityEmoji(v.Severity), v.Severity, v.RuleID, escapeCell(v.SchemaName), escapeCell(v.Message)))
		}
		builder.WriteString("\n")

		if f.verbose {
			for _, v := range byFile[file] {
				for _, s := range v.Suggestions {
					builder.WriteString(fmt.Sprintf("- `%s` (%s): %s\n", v.RuleID, escapeCell(v.SchemaName), escapeCell(s)))
				}
			}
			builder.WriteString("\n")
		}
	}
}

// severityEmoji returns an emoji for the severity
func severityEmoji(s types.Severity) string {
	switch s {
	case types.SeverityError:
		return "❌"
	case types.SeverityWarning:
		return "⚠️"
	default:
		return "💡"
	}
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "")
	return anchor
}

// escapeCell keeps pipes and newlines from breaking table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
