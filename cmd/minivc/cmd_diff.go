package main

import (
	"errors"
	"fmt"

	"github.com/odvcencio/minivc/pkg/diff"
	"github.com/odvcencio/minivc/pkg/repo"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "diff <file>",
		Short: "Compare a working file with its version in the head commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			var report *diff.Report
			if mode == "" {
				report, err = r.Diff(args[0])
			} else {
				m, parseErr := diff.ParseMode(mode)
				if parseErr != nil {
					return parseErr
				}
				report, err = r.DiffWithMode(args[0], m)
			}

			out := cmd.OutOrStdout()
			switch {
			case errors.Is(err, repo.ErrNotInHead):
				fmt.Fprintln(out, repo.ErrNotInHead)
				return nil
			case errors.Is(err, repo.ErrNoCommits):
				fmt.Fprintln(out, repo.ErrNoCommits)
				return nil
			case err != nil:
				return err
			}

			fmt.Fprint(out, report.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "diff algorithm: paired or myers (default from config)")

	return cmd
}
