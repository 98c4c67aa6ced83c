package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/minivc/pkg/object"
)

// FileStatus represents the state of a file relative to the head snapshot
// and the staging area.
type FileStatus int

const (
	StatusStaged      FileStatus = iota // staged, unchanged since add
	StatusStagedDirty                   // staged, edited since add
	StatusModified                      // tracked in head, differs, not staged
	StatusDeleted                       // tracked in head or staged, missing on disk
	StatusUntracked                     // on disk, neither staged nor in head
)

func (s FileStatus) String() string {
	switch s {
	case StatusStaged:
		return "staged"
	case StatusStagedDirty:
		return "staged-dirty"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	case StatusUntracked:
		return "untracked"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

// StatusEntry records the status of a single file.
type StatusEntry struct {
	Path   string // repo-relative path
	Status FileStatus
}

// Status computes the working tree status for the repository.
//
// Algorithm:
//  1. Read staging and the head snapshot.
//  2. Walk the working directory (skipping .minivc/ and ignored paths).
//  3. Staged files compare against their add-time fingerprint; other
//     files compare against the head blob hash.
//  4. Head or staged paths missing on disk are deleted.
//  5. Return entries sorted by path, clean files omitted.
func (r *Repo) Status() ([]StatusEntry, error) {
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	head, err := r.headFiles()
	if err != nil {
		return nil, fmt.Errorf("status: head snapshot: %w", err)
	}

	ic := NewIgnoreChecker(r.RootDir)
	var entries []StatusEntry
	seen := make(map[string]bool)

	err = filepath.WalkDir(r.RootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if ic.IsIgnored(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		seen[rel] = true

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %q: %w", rel, err)
		}
		if se, staged := stg.Entries[rel]; staged {
			st := StatusStaged
			if se.Fingerprint != fingerprint(content) {
				st = StatusStagedDirty
			}
			entries = append(entries, StatusEntry{Path: rel, Status: st})
			return nil
		}
		blobHash, tracked := head[rel]
		switch {
		case !tracked:
			entries = append(entries, StatusEntry{Path: rel, Status: StatusUntracked})
		case object.HashObject(object.TypeBlob, content) != blobHash:
			entries = append(entries, StatusEntry{Path: rel, Status: StatusModified})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("status: walk: %w", err)
	}

	missing := make(map[string]bool)
	for p := range head {
		if !seen[p] {
			missing[p] = true
		}
	}
	for p := range stg.Entries {
		if !seen[p] {
			missing[p] = true
		}
	}
	for p := range missing {
		entries = append(entries, StatusEntry{Path: p, Status: StatusDeleted})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}
