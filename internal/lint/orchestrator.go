package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dotcommander/zodkit/internal/baseline"
	"github.com/dotcommander/zodkit/internal/config"
	"github.com/dotcommander/zodkit/internal/discovery"
	"github.com/dotcommander/zodkit/internal/extract"
	"github.com/dotcommander/zodkit/internal/git"
	"github.com/dotcommander/zodkit/internal/project"
	"github.com/dotcommander/zodkit/internal/report"
	"github.com/dotcommander/zodkit/internal/rules"
	"github.com/dotcommander/zodkit/internal/types"
)

// OrchestratorConfig holds the per-invocation options of a lint run.
type OrchestratorConfig struct {
	Paths          []string
	Staged         bool
	Changed        bool
	UseBaseline    bool
	CreateBaseline bool
	BaselinePath   string
}

// ReportWriter renders a finished report in the named format.
type ReportWriter interface {
	Format(r *report.RunReport, format string) error
}

// Orchestrator coordinates file selection, extraction, rule evaluation,
// baseline handling and output for one run.
type Orchestrator struct {
	cfg       *config.Config
	opts      OrchestratorConfig
	out       ReportWriter
	extractor extract.Provider
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOrchestratorLogger sets the logger for progress and warnings.
func WithOrchestratorLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithExtractor replaces the default Zod extractor.
func WithExtractor(p extract.Provider) Option {
	return func(o *Orchestrator) { o.extractor = p }
}

// WithClock sets the time source used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates a new lint orchestrator. out may be nil, in which
// case the report is only returned.
func NewOrchestrator(cfg *config.Config, opts OrchestratorConfig, out ReportWriter, options ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		opts:      opts,
		out:       out,
		extractor: extract.NewZodExtractor(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Result holds the outcome of a lint run.
type Result struct {
	Report          *report.RunReport
	ExitCode        int
	BaselineCreated string
	BaselineIgnored int
}

// Run executes the full lint workflow.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, err
	}

	o.describeProject()

	files, err := o.selectFiles()
	if err != nil {
		return nil, err
	}
	o.logger.Debug("files selected", "count", len(files), "rules", reg.IDs())

	inputs, extractDiags := o.extractAll(files)

	engine := NewEngine(reg, WithLogger(o.logger))
	results, err := engine.RunAll(ctx, inputs, o.cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("lint run interrupted: %w", err)
	}

	result := &Result{}
	baselineFile := o.resolveBaselinePath()

	if o.opts.CreateBaseline {
		if err := o.saveBaseline(CollectAllViolations(results), baselineFile); err != nil {
			return nil, err
		}
		result.BaselineCreated = baselineFile
	} else if o.opts.UseBaseline {
		b, err := o.loadBaseline(baselineFile)
		if err != nil {
			o.logger.Warn("failed to load baseline", "path", baselineFile, "error", err)
		}
		ignored, bySeverity := FilterResults(results, b)
		result.BaselineIgnored = ignored
		if ignored > 0 {
			o.logger.Info("baseline issues ignored", "total", ignored,
				"errors", bySeverity[types.SeverityError], "warnings", bySeverity[types.SeverityWarning])
		}
	}

	rep := o.buildReport(results, extractDiags)
	rep.BaselineIgnored = result.BaselineIgnored
	result.Report = rep

	if o.out != nil {
		if err := o.out.Format(rep, o.cfg.Format); err != nil {
			return nil, fmt.Errorf("error formatting output: %w", err)
		}
	}

	// Creating a baseline accepts the current state.
	if !o.opts.CreateBaseline {
		result.ExitCode = rep.ExitCode(o.cfg.FailOnSeverity())
	}
	return result, nil
}

// registry builds the configured rule set.
func (o *Orchestrator) registry() (*rules.Registry, error) {
	reg, err := rules.DefaultRegistry(o.cfg.RuleOptions())
	if err != nil {
		return nil, err
	}
	reg, err = reg.Select(o.cfg.Rules.Enable, o.cfg.Rules.Disable)
	if err != nil {
		return nil, err
	}
	return reg.WithSeverity(o.cfg.Rules.Severity)
}

// describeProject logs what kind of project is being linted.
func (o *Orchestrator) describeProject() {
	info, err := project.Detect(o.cfg.Root)
	if err != nil {
		o.logger.Debug("project detection failed", "error", err)
		return
	}
	o.logger.Debug("project detected", "root", info.Root, "type", info.Type, "git", info.HasGit, "config", info.ConfigFile)
	if info.Type == "node" && !info.HasZod {
		o.logger.Info("package.json does not list zod as a dependency")
	}
}

// selectFiles resolves the files to lint: git selections first, then
// explicit paths, then pattern discovery under the root.
func (o *Orchestrator) selectFiles() ([]discovery.File, error) {
	fd := discovery.NewFileDiscovery(o.cfg.Root, o.cfg.FollowSymlinks).
		WithPatterns(o.cfg.Include, o.cfg.Exclude)

	switch {
	case o.opts.Staged || o.opts.Changed:
		var (
			paths []string
			err   error
		)
		if o.opts.Staged {
			paths, err = git.GetStagedFiles(o.cfg.Root)
		} else {
			paths, err = git.GetChangedFiles(o.cfg.Root)
		}
		if err != nil {
			return nil, fmt.Errorf("error reading git changes: %w", err)
		}
		if len(paths) == 0 {
			return nil, nil
		}
		return fd.Expand(paths)
	case len(o.opts.Paths) > 0:
		return fd.Expand(o.opts.Paths)
	default:
		return fd.DiscoverFiles()
	}
}

// extractAll turns discovered files into engine inputs. A file whose
// extraction fails is still linted with no records so its directives are
// checked, and the failure is reported as a diagnostic.
func (o *Orchestrator) extractAll(files []discovery.File) ([]FileInput, []types.EngineDiagnostic) {
	inputs := make([]FileInput, 0, len(files))
	var diags []types.EngineDiagnostic

	for _, f := range files {
		records, err := o.extractor.Extract(f.RelPath, f.Contents)
		if err != nil {
			diags = append(diags, types.EngineDiagnostic{
				Kind:     types.DiagExtractFailure,
				FilePath: f.RelPath,
				Message:  err.Error(),
			})
			records = nil
		}
		inputs = append(inputs, FileInput{Path: f.RelPath, Text: f.Contents, Records: records})
	}
	return inputs, diags
}

// buildReport aggregates per-file results into a stamped report.
func (o *Orchestrator) buildReport(results []FileResult, extra []types.EngineDiagnostic) *report.RunReport {
	perFile := make(map[string][]types.Violation, len(results))
	suppressed := 0
	diags := append([]types.EngineDiagnostic(nil), extra...)

	for _, r := range results {
		perFile[r.Path] = r.Violations
		suppressed += r.Suppressed
		diags = append(diags, r.Diagnostics...)
	}

	rep := report.Aggregate(perFile)
	rep.Stamp(o.now())
	rep.Suppressed = suppressed
	if len(diags) > 0 {
		rep.AddDiagnostics(diags...)
	}
	return rep
}

// resolveBaselinePath returns the baseline file, relative paths anchored at the root.
func (o *Orchestrator) resolveBaselinePath() string {
	baselineFile := o.opts.BaselinePath
	if baselineFile == "" {
		baselineFile = o.cfg.Baseline.Path
	}
	if baselineFile == "" {
		baselineFile = baseline.DefaultFile
	}
	if !filepath.IsAbs(baselineFile) {
		baselineFile = filepath.Join(o.cfg.Root, baselineFile)
	}
	return baselineFile
}

// loadBaseline loads the baseline file. A missing file is not an error.
func (o *Orchestrator) loadBaseline(baselineFile string) (*baseline.Baseline, error) {
	if _, err := os.Stat(baselineFile); errors.Is(err, fs.ErrNotExist) {
		o.logger.Debug("no baseline file", "path", baselineFile)
		return nil, nil
	}
	return baseline.LoadBaseline(baselineFile)
}

// saveBaseline creates and saves a new baseline from the collected violations.
func (o *Orchestrator) saveBaseline(violations []types.Violation, baselineFile string) error {
	b := baseline.CreateBaseline(violations)
	b.CreatedAt = o.now().UTC().Format(time.RFC3339)

	if err := b.SaveBaseline(baselineFile); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}

	o.logger.Info("baseline created", "path", baselineFile, "fingerprints", b.Len(), "violations", b.Total())
	return nil
}
