package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/zodkit/internal/report"
	"github.com/dotcommander/zodkit/internal/types"
)

// ConsoleFormatter prints violations grouped by file, followed by a one-line summary.
type ConsoleFormatter struct {
	w         io.Writer
	quiet     bool
	verbose   bool
	colorize  bool
	startTime time.Time
}

// NewConsoleFormatter creates a new ConsoleFormatter. Colour is only used
// when colorize is set, normally when stdout is a terminal.
func NewConsoleFormatter(w io.Writer, quiet, verbose, colorize bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:         w,
		quiet:     quiet,
		verbose:   verbose,
		colorize:  colorize,
		startTime: time.Now(),
	}
}

// consoleStyles holds the lipgloss styles used by the console output.
type consoleStyles struct {
	file, err, warn, info, dim, bold, ok lipgloss.Style
}

func (f *ConsoleFormatter) styles() consoleStyles {
	if !f.colorize {
		plain := lipgloss.NewStyle()
		return consoleStyles{plain, plain, plain, plain, plain, plain, plain}
	}
	return consoleStyles{
		file: lipgloss.NewStyle().Bold(true).Underline(true),
		err:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // red
		warn: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),  // yellow
		info: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),  // gray
		dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),  // dark gray
		bold: lipgloss.NewStyle().Bold(true),
		ok:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")), // green
	}
}

// Format writes the report. In quiet mode only error-severity violations are shown.
func (f *ConsoleFormatter) Format(r *report.RunReport) error {
	st := f.styles()

	var shown []types.Violation
	for _, v := range r.Violations {
		if f.quiet && v.Severity != types.SeverityError {
			continue
		}
		shown = append(shown, v)
	}

	f.printFileResults(shown, st)

	if f.quiet {
		return nil
	}

	f.printDiagnostics(r.Diagnostics, st)
	f.printSummary(r, st)
	return nil
}

// printFileResults prints violations grouped by file, in line order.
func (f *ConsoleFormatter) printFileResults(violations []types.Violation, st consoleStyles) {
	byFile := make(map[string][]types.Violation)
	var files []string
	for _, v := range violations {
		if _, ok := byFile[v.FilePath]; !ok {
			files = append(files, v.FilePath)
		}
		byFile[v.FilePath] = append(byFile[v.FilePath], v)
	}
	sort.Strings(files)

	for _, file := range files {
		vs := byFile[file]
		sort.SliceStable(vs, func(i, j int) bool {
			if vs[i].Line != vs[j].Line {
				return vs[i].Line < vs[j].Line
			}
			return vs[i].Column < vs[j].Column
		})

		fmt.Fprintln(f.w, st.file.Render(file))
		for _, v := range vs {
			f.printViolation(v, st)
		}
		fmt.Fprintln(f.w)
	}
}

// printViolation prints one violation with appropriate styling
func (f *ConsoleFormatter) printViolation(v types.Violation, st consoleStyles) {
	var sevStyle lipgloss.Style
	switch v.Severity {
	case types.SeverityError:
		sevStyle = st.err
	case types.SeverityWarning:
		sevStyle = st.warn
	default:
		sevStyle = st.info
	}

	loc := "-"
	if !v.IsGlobal() {
		loc = fmt.Sprintf("%d:%d", v.Line, v.Column)
	}

	fmt.Fprintf(f.w, "  %-8s %s  %s  %s\n",
		loc,
		sevStyle.Render(fmt.Sprintf("%-7s", v.Severity)),
		v.Message,
		st.dim.Render(v.RuleID))

	if f.verbose {
		for _, s := range v.Suggestions {
			fmt.Fprintf(f.w, "           %s\n", st.dim.Render("→ "+s))
		}
	}
}

// printDiagnostics lists engine notes such as unbalanced ignore blocks.
func (f *ConsoleFormatter) printDiagnostics(diags []types.EngineDiagnostic, st consoleStyles) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(f.w, st.bold.Render("Notes"))
	for _, d := range diags {
		fmt.Fprintf(f.w, "  %s\n", st.dim.Render(d.String()))
	}
	fmt.Fprintln(f.w)
}

// printSummary prints the totals line.
func (f *ConsoleFormatter) printSummary(r *report.RunReport, st consoleStyles) {
	duration := time.Since(f.startTime).Round(time.Millisecond)

	if r.Total() == 0 {
		msg := fmt.Sprintf("✓ No problems in %d %s", r.Files, plural(r.Files, "file", "files"))
		if f.colorize && r.Files > 0 {
			printCelebration(f.w, msg)
		} else {
			fmt.Fprintln(f.w, st.ok.Render(msg))
		}
	} else {
		counts := []string{
			st.err.Render(fmt.Sprintf("%d %s", r.BySeverity[types.SeverityError], plural(r.BySeverity[types.SeverityError], "error", "errors"))),
			st.warn.Render(fmt.Sprintf("%d %s", r.BySeverity[types.SeverityWarning], plural(r.BySeverity[types.SeverityWarning], "warning", "warnings"))),
			st.info.Render(fmt.Sprintf("%d info", r.BySeverity[types.SeverityInfo])),
		}
		fmt.Fprintf(f.w, "%s %d %s (%s) in %d %s\n",
			st.bold.Render("✗"),
			r.Total(), plural(r.Total(), "problem", "problems"),
			strings.Join(counts, ", "),
			r.Files, plural(r.Files, "file", "files"))
	}

	var extras []string
	if n := len(r.AutoFixable); n > 0 {
		extras = append(extras, fmt.Sprintf("%d auto-fixable", n))
	}
	if r.Suppressed > 0 {
		extras = append(extras, fmt.Sprintf("%d suppressed", r.Suppressed))
	}
	if r.BaselineIgnored > 0 {
		extras = append(extras, fmt.Sprintf("%d in baseline", r.BaselineIgnored))
	}
	if f.verbose {
		extras = append(extras, duration.String())
	}
	if len(extras) > 0 {
		fmt.Fprintln(f.w, st.dim.Render("  "+strings.Join(extras, " · ")))
	}

	if f.verbose && r.Total() > 0 {
		f.printCategories(r, st)
	}
}

// printCategories prints the per-category counts in taxonomy order.
func (f *ConsoleFormatter) printCategories(r *report.RunReport, st consoleStyles) {
	fmt.Fprintln(f.w)
	for _, c := range types.Categories {
		if n := r.ByCategory[c]; n > 0 {
			fmt.Fprintf(f.w, "  %-14s %s\n", c, st.dim.Render(fmt.Sprintf("%d", n)))
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
