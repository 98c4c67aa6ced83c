package main

import (
	"errors"
	"fmt"

	"github.com/odvcencio/minivc/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string
	var sign bool
	var keyPath string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record staged changes on the active branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := openRepo()
			if err != nil {
				return err
			}
			cfg, err := r.ReadConfig()
			if err != nil {
				return err
			}

			var signer repo.CommitSigner
			if sign || cfg.Commit.Sign || keyPath != "" {
				if keyPath == "" {
					keyPath = cfg.Commit.SigningKey
				}
				s, _, err := newSSHCommitSigner(keyPath)
				if err != nil {
					return err
				}
				signer = s
			}

			h, err := r.CommitWithSigner(message, signer)
			var orphan *repo.OrphanCommitError
			if errors.As(err, &orphan) {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", h.Short(), firstLine(message))
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				return nil
			}
			if err != nil {
				return err
			}

			branch := "HEAD"
			if name, err := r.CurrentBranch(); err == nil {
				branch = name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, h.Short(), firstLine(message))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&keyPath, "key", "", "SSH private key used for signing (implies --sign)")

	return cmd
}
