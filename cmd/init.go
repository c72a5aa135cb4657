package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/zodkit/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .zodkitrc.json with the default settings",
	Long: `The init command writes the effective configuration (defaults plus any
ZODKIT_ environment overrides) to .zodkitrc.json in the project root, so it can
be edited and committed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.OutOrStdout())
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing .zodkitrc.json")
	rootCmd.AddCommand(initCmd)
}

func runInit(w io.Writer) error {
	root, err := resolveRoot(rootPath)
	if err != nil {
		return fmt.Errorf("error finding project root: %w", err)
	}

	path := filepath.Join(root, config.ConfigFiles[0])
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	// Paths in the file are relative to the file itself.
	cfg.Root = "."

	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
