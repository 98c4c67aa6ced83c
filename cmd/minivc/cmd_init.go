package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/minivc/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var defaultBranch string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty minivc repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			cfg := repo.DefaultConfig()
			if defaultBranch != "" {
				cfg.Core.DefaultBranch = defaultBranch
			}
			r, err := repo.InitWithConfig(abs, cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty minivc repository in %s\n", r.Dir+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultBranch, "branch", "", "name of the initial branch (default \""+repo.DefaultBranch+"\")")

	return cmd
}
