package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	var createBranch bool
	var worktree bool
	var force bool

	cmd := &cobra.Command{
		Use:   "checkout <branch>",
		Short: "Switch branches",
		Long: "Switch the active branch. By default only HEAD moves and the working\n" +
			"directory is left untouched; --worktree also rewrites tracked files.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			r, err := openRepo()
			if err != nil {
				return err
			}

			if createBranch {
				if err := r.Branch(target); err != nil {
					return err
				}
			}

			if worktree {
				err = r.CheckoutWorktree(target, force)
			} else {
				err = r.Checkout(target)
			}
			if err != nil {
				return err
			}

			if createBranch {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to new branch '%s'\n", target)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to branch '%s'\n", target)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "branch", "b", false, "create and switch to a new branch")
	cmd.Flags().BoolVar(&worktree, "worktree", false, "rewrite the working directory to match the branch")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "with --worktree, discard local changes to tracked files")

	return cmd
}
