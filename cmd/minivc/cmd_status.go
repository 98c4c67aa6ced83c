package main

import (
	"fmt"

	"github.com/odvcencio/minivc/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			entries, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			branch, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			if head, _ := r.HeadCommit(); head == "" {
				fmt.Fprintf(out, "on %s (no commits yet)\n", branch)
			} else {
				fmt.Fprintf(out, "on %s\n", branch)
			}

			var staged, unstaged, untracked []string
			for _, e := range entries {
				switch e.Status {
				case repo.StatusStaged:
					staged = append(staged, "  + "+e.Path)
				case repo.StatusStagedDirty:
					staged = append(staged, "  + "+e.Path)
					unstaged = append(unstaged, "  ~ "+e.Path)
				case repo.StatusModified:
					unstaged = append(unstaged, "  ~ "+e.Path)
				case repo.StatusDeleted:
					unstaged = append(unstaged, "  - "+e.Path)
				case repo.StatusUntracked:
					untracked = append(untracked, "  "+e.Path)
				}
			}

			printSection(cmd, "staged:", staged)
			printSection(cmd, "unstaged:", unstaged)
			printSection(cmd, "untracked:", untracked)
			return nil
		},
	}
}

func printSection(cmd *cobra.Command, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	for _, s := range lines {
		fmt.Fprintln(out, s)
	}
}
