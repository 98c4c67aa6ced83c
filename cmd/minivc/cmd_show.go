package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/minivc/pkg/object"
	"github.com/odvcencio/minivc/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [commit-ish]",
		Short: "Show commit metadata and changed files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			target := "HEAD"
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				target = args[0]
			}
			h, err := r.ResolveCommit(target)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}
			c, err := r.LookupCommit(h)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}

			out := cmd.OutOrStdout()
			printCommit(out, c, "")

			before := make(map[string]object.Hash)
			if c.HasParent() {
				if parent, err := r.LookupCommit(c.Parent); err == nil {
					before, err = treeFiles(r, parent.Tree)
					if err != nil {
						return fmt.Errorf("show: parent tree: %w", err)
					}
				}
			}
			after, err := treeFiles(r, c.Tree)
			if err != nil {
				return fmt.Errorf("show: flatten tree: %w", err)
			}

			changes := summarizeTreeChanges(before, after)
			if len(changes) == 0 {
				return nil
			}
			fmt.Fprintln(out, "Changes:")
			for _, line := range changes {
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		},
	}
}

func treeFiles(r *repo.Repo, tree object.Hash) (map[string]object.Hash, error) {
	entries, err := r.FlattenTree(tree)
	if err != nil {
		return nil, err
	}
	files := make(map[string]object.Hash, len(entries))
	for _, e := range entries {
		files[e.Path] = e.BlobHash
	}
	return files, nil
}

func summarizeTreeChanges(before, after map[string]object.Hash) []string {
	paths := make(map[string]struct{}, len(before)+len(after))
	for p := range before {
		paths[p] = struct{}{}
	}
	for p := range after {
		paths[p] = struct{}{}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	out := make([]string, 0, len(sorted))
	for _, p := range sorted {
		b, inBefore := before[p]
		a, inAfter := after[p]
		switch {
		case !inBefore && inAfter:
			out = append(out, "A "+p)
		case inBefore && !inAfter:
			out = append(out, "D "+p)
		case b != a:
			out = append(out, "M "+p)
		}
	}
	return out
}
