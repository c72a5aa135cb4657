package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/zodkit/internal/config"
	"github.com/dotcommander/zodkit/internal/rules"
	"github.com/dotcommander/zodkit/internal/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	Long: `The rules command lists every built-in rule with its default severity,
category and whether it can be fixed automatically.

Rules disabled in the configuration are marked as off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRules(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(w io.Writer) error {
	root, err := resolveRoot(rootPath)
	if err != nil {
		return fmt.Errorf("error finding project root: %w", err)
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	all, err := rules.DefaultRegistry(cfg.RuleOptions())
	if err != nil {
		return err
	}
	active, err := all.Select(cfg.Rules.Enable, cfg.Rules.Disable)
	if err != nil {
		return err
	}
	active, err = active.WithSeverity(cfg.Rules.Severity)
	if err != nil {
		return err
	}

	printRules(w, all, active)
	return nil
}

// printRules renders one row per rule in registration order.
func printRules(w io.Writer, all, active *rules.Registry) {
	header := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sevColor := map[types.Severity]lipgloss.Style{
		types.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		types.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		types.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}

	fmt.Fprintln(w, header.Render(fmt.Sprintf("%-24s %-8s %-14s %-5s %s", "RULE", "LEVEL", "CATEGORY", "FIX", "DESCRIPTION")))
	for _, rule := range all.Rules() {
		level := "off"
		style := dim
		if r, ok := active.Lookup(rule.ID); ok {
			level = string(r.Severity)
			style = sevColor[r.Severity]
		}
		fix := ""
		if rule.AutoFixable {
			fix = "yes"
		}
		fmt.Fprintf(w, "%-24s %s %-14s %-5s %s\n",
			rule.ID,
			style.Render(fmt.Sprintf("%-8s", level)),
			rule.Category,
			fix,
			dim.Render(rule.Description))
	}
}
