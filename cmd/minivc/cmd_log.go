package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/minivc/pkg/object"
	"github.com/odvcencio/minivc/pkg/repo"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04:05 MST"

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history of the active branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			headHash, err := r.HeadCommit()
			if err != nil {
				return err
			}
			commits, err := r.LogFrom(headHash, limit)
			if err != nil {
				return err
			}
			if len(commits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")
				return nil
			}

			branchName, _ := r.CurrentBranch()
			out := cmd.OutOrStdout()
			for _, c := range commits {
				decoration := buildDecoration(c.Hash, headHash, branchName)
				if oneline {
					if decoration != "" {
						fmt.Fprintf(out, "%s %s %s\n", c.Hash.Short(), decoration, firstLine(c.Message))
					} else {
						fmt.Fprintf(out, "%s %s\n", c.Hash.Short(), firstLine(c.Message))
					}
					continue
				}
				printCommit(out, &c, decoration)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits to show (0 shows all)")

	return cmd
}

func printCommit(out io.Writer, c *repo.CommitRecord, decoration string) {
	if decoration != "" {
		fmt.Fprintf(out, "commit %s %s\n", c.Hash, decoration)
	} else {
		fmt.Fprintf(out, "commit %s\n", c.Hash)
	}
	if c.HasParent() {
		fmt.Fprintf(out, "Parent: %s\n", c.Parent)
	}
	if c.Signature != "" {
		fmt.Fprintln(out, "Signed: yes")
	}
	fmt.Fprintf(out, "Date:   %s\n", c.Timestamp.Local().Format(dateLayout))
	fmt.Fprintln(out)
	for _, line := range strings.Split(c.Message, "\n") {
		fmt.Fprintf(out, "    %s\n", line)
	}
	fmt.Fprintln(out)
}

// buildDecoration returns a string like "(HEAD -> master)" if the commit is
// the current head, or "" otherwise.
func buildDecoration(commitHash, headHash object.Hash, branchName string) string {
	if commitHash != headHash {
		return ""
	}
	if branchName != "" {
		return "(HEAD -> " + branchName + ")"
	}
	return "(HEAD)"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
