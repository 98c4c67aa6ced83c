package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name]",
		Short: "List branches, or create one at the current head",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				if err := r.Branch(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created branch '%s'\n", args[0])
				return nil
			}

			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			current, _ := r.CurrentBranch()

			out := cmd.OutOrStdout()
			for _, b := range branches {
				if b.Name == current {
					fmt.Fprintf(out, "* %s\n", b.Name)
				} else {
					fmt.Fprintf(out, "  %s\n", b.Name)
				}
			}
			return nil
		},
	}
}
