package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/zodkit/internal/suppress"
)

var (
	ignoreKind  string
	ignoreRules []string
	ignoreFile  string
	ignoreLine  int
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Print a suppression comment",
	Long: `The ignore command prints a zodkit-ignore comment for the given kind
and rules. With --file and --line it prints a patch showing where the comment
would go instead. Files are never modified.

Kinds: file, next-line, line, start, end`,
	Example: `  zodkit ignore --kind next-line --rules no-any
  zodkit ignore --kind line --rules no-any,missing-validation --file src/user.ts --line 12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIgnore(cmd.OutOrStdout())
	},
}

func init() {
	ignoreCmd.Flags().StringVarP(&ignoreKind, "kind", "k", "next-line", "Directive kind")
	ignoreCmd.Flags().StringSliceVar(&ignoreRules, "rules", nil, "Rule ids to suppress (default: all rules)")
	ignoreCmd.Flags().StringVar(&ignoreFile, "file", "", "Preview the directive in this file")
	ignoreCmd.Flags().IntVar(&ignoreLine, "line", 0, "Line the directive applies to (with --file)")
	rootCmd.AddCommand(ignoreCmd)
}

func runIgnore(w io.Writer) error {
	kind, err := suppress.ParseKind(ignoreKind)
	if err != nil {
		return err
	}

	if ignoreFile == "" {
		fmt.Fprintln(w, suppress.Format(kind, ignoreRules...))
		return nil
	}

	data, err := os.ReadFile(ignoreFile)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", ignoreFile, err)
	}
	patch, err := suppress.Preview(string(data), ignoreLine, kind, ignoreRules)
	if err != nil {
		return fmt.Errorf("%s: %w", ignoreFile, err)
	}
	fmt.Fprint(w, patch)
	return nil
}
