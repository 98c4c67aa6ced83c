package repo

import (
	"errors"
	"fmt"
	"os"

	"github.com/odvcencio/minivc/pkg/diff"
)

// Diff compares the working copy of path with the version recorded in the
// active head snapshot, using the diff mode from the repository config.
func (r *Repo) Diff(path string) (*diff.Report, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	mode, err := cfg.DiffMode()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return r.DiffWithMode(path, mode)
}

// DiffWithMode is Diff with an explicit algorithm.
//
// The head commit's declared tree is dereferenced and the file is looked up
// by its repo-relative path. A file absent from that snapshot fails with
// ErrNotInHead; an unborn branch fails with ErrNoCommits.
func (r *Repo) DiffWithMode(path string, mode diff.Mode) (*diff.Report, error) {
	relPath, err := r.repoRelPath(path)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	current, err := os.ReadFile(r.absPath(relPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("diff: %q: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("diff: read %q: %w", relPath, err)
	}

	head, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	if head == "" {
		return nil, fmt.Errorf("diff: %w", ErrNoCommits)
	}
	c, err := r.LookupCommit(head)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}

	entry, found, err := r.TreeEntryAtPath(c.Tree, relPath)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("diff %q: %w", relPath, ErrNotInHead)
	}
	blob, err := r.Store.ReadBlob(entry.Hash)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}

	return &diff.Report{
		Path:    relPath,
		Mode:    mode,
		Records: diff.Compare(mode, string(blob.Data), string(current)),
	}, nil
}
