// Package outputters selects and drives a report formatter based on config.
package outputters

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dotcommander/zodkit/internal/config"
	"github.com/dotcommander/zodkit/internal/output"
	"github.com/dotcommander/zodkit/internal/report"
)

// Formatter renders a run report.
type Formatter interface {
	Format(r *report.RunReport) error
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	version string
	stdout  io.Writer
	create  func(path string) (io.WriteCloser, error)
	isTTY   func() bool
}

// NewOutputter creates a new Outputter writing to stdout unless config.Output is set.
func NewOutputter(cfg *config.Config, version string) *Outputter {
	return &Outputter{
		config:  cfg,
		version: version,
		stdout:  os.Stdout,
		create:  func(path string) (io.WriteCloser, error) { return os.Create(path) },
		isTTY:   func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
}

// Format renders the report using the named format.
func (o *Outputter) Format(r *report.RunReport, format string) (err error) {
	if !supported(format) {
		return fmt.Errorf("unsupported format: %s", format)
	}
	if o.config.Output == "" {
		return o.formatterFor(format, o.stdout, o.colorize()).Format(r)
	}

	f, err := o.create(o.config.Output)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing output file: %w", cerr)
		}
	}()

	return o.formatterFor(format, f, false).Format(r)
}

// supported reports whether format names a known formatter.
func supported(format string) bool {
	switch format {
	case "", "console", "json", "yaml", "markdown":
		return true
	default:
		return false
	}
}

// formatterFor builds the formatter for a supported format writing to w.
func (o *Outputter) formatterFor(format string, w io.Writer, colorize bool) Formatter {
	switch format {
	case "json":
		return output.NewJSONFormatter(w, true, o.version)
	case "yaml":
		return output.NewYAMLFormatter(w, o.version)
	case "markdown":
		return output.NewMarkdownFormatter(w, o.config.Verbose, o.config.Root)
	default:
		return output.NewConsoleFormatter(w, o.config.Quiet, o.config.Verbose, colorize)
	}
}

// colorize reports whether console output should use colour.
func (o *Outputter) colorize() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return o.isTTY()
}
