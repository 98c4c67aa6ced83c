package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var commitish string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify object integrity, or a commit's signature with --commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if commitish != "" {
				h, err := r.ResolveCommit(commitish)
				if err != nil {
					return err
				}
				c, err := r.Store.ReadCommit(h)
				if err != nil {
					return err
				}
				fingerprint, err := verifyCommitSignature(c)
				if err != nil {
					return fmt.Errorf("verify %s: %w", h.Short(), err)
				}
				fmt.Fprintf(out, "ok: commit %s signed by %s\n", h.Short(), fingerprint)
				return nil
			}

			report, err := r.Store.Verify()
			if err != nil {
				return err
			}

			types := make([]string, 0, len(report.ByType))
			for t, n := range report.ByType {
				types = append(types, fmt.Sprintf("%d %s", n, t))
			}
			sort.Strings(types)
			detail := ""
			if len(types) > 0 {
				detail = " (" + strings.Join(types, ", ") + ")"
			}
			fmt.Fprintf(out, "ok: verified %d object(s)%s\n", report.Objects, detail)
			return nil
		},
	}

	cmd.Flags().StringVar(&commitish, "commit", "", "verify the SSH signature of this commit instead")

	return cmd
}
