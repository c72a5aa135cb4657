// Package cmd implements the zodkit command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/zodkit/internal/config"
	"github.com/dotcommander/zodkit/internal/lint"
	"github.com/dotcommander/zodkit/internal/outputters"
	"github.com/dotcommander/zodkit/internal/project"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var (
	rootPath       string
	quiet          bool
	verbose        bool
	outputFormat   string
	outputFile     string
	failOn         string
	jobs           int
	stagedOnly     bool
	changedOnly    bool
	useBaseline    bool
	createBaseline bool
	baselinePath   string
)

// exitFunc is replaced in tests.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "zodkit [paths...]",
	Short: "Lint Zod schemas in JavaScript and TypeScript projects",
	Long: `zodkit finds Zod schema declarations in JS/TS sources and checks them
against a set of rules: z.any() usage, unconstrained primitives, schema size,
missing descriptions and unchecked related fields.

Findings can be silenced in source with comments:

  // zodkit-ignore-file [rules]        whole file (first 10 lines)
  // zodkit-ignore-next-line [rules]   the following line
  // zodkit-ignore-line [rules]        the same line
  // zodkit-ignore-start [rules]       until the matching zodkit-ignore-end

By default the whole project is scanned. Pass paths to lint only those files
or directories, or use --staged / --changed to lint what git reports.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := runLint(cmd.Context(), args)
		if err != nil {
			return err
		}
		if code != 0 {
			exitFunc(code)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootPath, "root", "r", "", "Project root directory (auto-detected if not specified)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only print errors")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show suggestions and debug logging")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown|yaml)")
	flags.StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	flags.StringVar(&failOn, "fail-on", "error", "Exit non-zero at or above this severity (error|warning|info)")

	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files linted in parallel (default: number of CPUs)")
	rootCmd.Flags().BoolVar(&stagedOnly, "staged", false, "Lint only files staged in git")
	rootCmd.Flags().BoolVar(&changedOnly, "changed", false, "Lint only files with uncommitted changes")
	rootCmd.Flags().BoolVar(&useBaseline, "baseline", false, "Hide violations recorded in the baseline file")
	rootCmd.Flags().BoolVar(&createBaseline, "create-baseline", false, "Record current violations as the baseline")
	rootCmd.Flags().StringVar(&baselinePath, "baseline-path", "", "Baseline file (default: .zodkit-baseline.json in the root)")
	rootCmd.MarkFlagsMutuallyExclusive("staged", "changed")
	rootCmd.MarkFlagsMutuallyExclusive("baseline", "create-baseline")

	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("failOn", flags.Lookup("fail-on"))
	_ = viper.BindPFlag("concurrency", rootCmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("baseline.path", rootCmd.Flags().Lookup("baseline-path"))
}

// initConfig loads an optional .env file so ZODKIT_ variables can live there.
func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
}

// newLogger returns a stderr logger: debug level when verbose, warnings otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveRoot returns the explicit --root, or the nearest project root above
// the working directory.
func resolveRoot(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return project.FindProjectRoot(".")
}

func runLint(ctx context.Context, args []string) (int, error) {
	root, err := resolveRoot(rootPath)
	if err != nil {
		return 0, fmt.Errorf("error finding project root: %w", err)
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return 0, fmt.Errorf("error loading configuration: %w", err)
	}

	logger := newLogger(os.Stderr, cfg.Verbose)
	logger.Debug("configuration loaded", "root", cfg.Root, "format", cfg.Format, "concurrency", cfg.Concurrency)

	opts := lint.OrchestratorConfig{
		Paths:          args,
		Staged:         stagedOnly,
		Changed:        changedOnly,
		UseBaseline:    useBaseline,
		CreateBaseline: createBaseline,
		BaselinePath:   cfg.Baseline.Path,
	}

	out := outputters.NewOutputter(cfg, Version)
	result, err := lint.NewOrchestrator(cfg, opts, out, lint.WithOrchestratorLogger(logger)).Run(ctx)
	if err != nil {
		return 0, err
	}

	if result.BaselineCreated != "" && !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "Baseline created: %s\n", result.BaselineCreated)
	}
	return result.ExitCode, nil
}
