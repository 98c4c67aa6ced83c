package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/minivc/pkg/object"
)

// CheckoutWorktree switches to the branch name and rewrites the working
// directory to match its head snapshot.
//
// Algorithm:
//  1. Resolve the target branch (ErrBranchNotFound if absent).
//  2. Unless force is set, refuse when tracked files have uncommitted
//     changes (ErrDirtyWorktree) or when an untracked file on disk would
//     be replaced by different target content (ErrUntrackedOverwrite).
//  3. Remove files of the current head snapshot that the target lacks.
//  4. Write every file of the target snapshot.
//  5. Clear staging and repoint HEAD.
func (r *Repo) CheckoutWorktree(name string, force bool) error {
	exists, err := r.branchExists(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if !exists {
		return fmt.Errorf("checkout %q: %w", name, ErrBranchNotFound)
	}

	if !force {
		if err := r.ensureClean(); err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
	}

	targetHead, _, err := r.readRef(branchRef(name))
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	targetFiles, err := r.commitFiles(targetHead)
	if err != nil {
		return fmt.Errorf("checkout: target snapshot: %w", err)
	}
	currentFiles, err := r.headFiles()
	if err != nil {
		return fmt.Errorf("checkout: current snapshot: %w", err)
	}
	if !force {
		if err := r.ensureNoUntrackedOverwrite(currentFiles, targetFiles); err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
	}

	for p := range currentFiles {
		if _, keep := targetFiles[p]; keep {
			continue
		}
		absPath := r.absPath(p)
		if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("checkout: remove %q: %w", p, err)
		}
		r.removeEmptyParents(filepath.Dir(absPath))
	}

	paths := make([]string, 0, len(targetFiles))
	for p := range targetFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		absPath := r.absPath(p)
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir %q: %w", filepath.Dir(p), err)
		}
		blob, err := r.Store.ReadBlob(targetFiles[p])
		if err != nil {
			return fmt.Errorf("checkout: read blob for %q: %w", p, err)
		}
		if err := os.WriteFile(absPath, blob.Data, 0o644); err != nil {
			return fmt.Errorf("checkout: write %q: %w", p, err)
		}
	}

	if err := r.ClearStaging(); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.switchHead(name)
}

// ensureClean fails when a tracked or staged file has changes that are not
// part of the head snapshot. Untracked files do not count.
func (r *Repo) ensureClean() error {
	entries, err := r.Status()
	if err != nil {
		return fmt.Errorf("check status: %w", err)
	}
	for _, e := range entries {
		if e.Status != StatusUntracked {
			return fmt.Errorf("%w (%s: %s)", ErrDirtyWorktree, e.Path, e.Status)
		}
	}
	return nil
}

// ensureNoUntrackedOverwrite fails when a target path exists on disk, is
// not part of the current head snapshot, and holds content other than the
// target blob.
func (r *Repo) ensureNoUntrackedOverwrite(current, target map[string]object.Hash) error {
	var clobbered []string
	for p, blobHash := range target {
		if _, tracked := current[p]; tracked {
			continue
		}
		content, err := os.ReadFile(r.absPath(p))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read %q: %w", p, err)
		}
		if object.HashObject(object.TypeBlob, content) != blobHash {
			clobbered = append(clobbered, p)
		}
	}
	if len(clobbered) == 0 {
		return nil
	}
	sort.Strings(clobbered)
	return fmt.Errorf("%w: %s", ErrUntrackedOverwrite, strings.Join(clobbered, ", "))
}

// removeEmptyParents removes empty directories up to (but not including)
// the repository root.
func (r *Repo) removeEmptyParents(dir string) {
	for {
		if dir == r.RootDir || !strings.HasPrefix(dir, r.RootDir) {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}
