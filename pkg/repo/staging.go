package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// StagingEntry records one path queued for the next commit. The
// fingerprint and size describe the content at add time; commit re-reads
// the file, so they only serve Status.
type StagingEntry struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
	Size        int64  `json:"size"`
}

// Staging is the set of paths queued for the next commit, keyed by
// repo-relative slash path.
type Staging struct {
	Entries map[string]*StagingEntry `json:"entries"`
}

// Paths returns the staged paths sorted.
func (s *Staging) Paths() []string {
	paths := make([]string, 0, len(s.Entries))
	for p := range s.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func fingerprint(data []byte) string {
	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// indexPath returns the filesystem path to the staging index file.
func (r *Repo) indexPath() string {
	return filepath.Join(r.Dir, "index")
}

// ReadStaging loads the staging area from .minivc/index. If the file does
// not exist, an empty Staging is returned (no error).
func (r *Repo) ReadStaging() (*Staging, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Staging{Entries: make(map[string]*StagingEntry)}, nil
		}
		return nil, fmt.Errorf("read staging: %w", err)
	}

	var stg Staging
	if err := json.Unmarshal(data, &stg); err != nil {
		return nil, fmt.Errorf("read staging: unmarshal: %w", err)
	}
	if stg.Entries == nil {
		stg.Entries = make(map[string]*StagingEntry)
	}
	return &stg, nil
}

// WriteStaging atomically writes the staging area to .minivc/index.
func (r *Repo) WriteStaging(s *Staging) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("write staging: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(r.Dir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write staging: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write staging: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: close: %w", err)
	}

	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: rename: %w", err)
	}
	return nil
}

// ClearStaging empties the staging area.
func (r *Repo) ClearStaging() error {
	return r.WriteStaging(&Staging{Entries: make(map[string]*StagingEntry)})
}

// StagedPaths returns the currently staged paths, sorted.
func (r *Repo) StagedPaths() ([]string, error) {
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, err
	}
	return stg.Paths(), nil
}

// Add stages the given paths. A directory stages every regular file below
// it, skipping ignored paths and the repository directory; a file is staged
// directly. Staging the same path twice keeps a single entry.
func (r *Repo) Add(paths ...string) error {
	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	ic := NewIgnoreChecker(r.RootDir)
	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("add: resolve path %q: %w", p, err)
		}
		if isRepoDirPath(relPath) {
			return fmt.Errorf("add: %q is inside the repository directory", p)
		}
		absPath := r.absPath(relPath)

		info, err := os.Stat(absPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("add: %q: %w", p, ErrNotFound)
			}
			return fmt.Errorf("add: stat %q: %w", relPath, err)
		}

		if !info.IsDir() {
			if err := r.stageFile(stg, relPath); err != nil {
				return fmt.Errorf("add: %w", err)
			}
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, walkErr error) error {
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
			return r.stageFile(stg, rel)
		})
		if err != nil {
			return fmt.Errorf("add: walk %q: %w", relPath, err)
		}
	}

	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

func (r *Repo) stageFile(stg *Staging, relPath string) error {
	content, err := os.ReadFile(r.absPath(relPath))
	if err != nil {
		return fmt.Errorf("read %q: %w", relPath, err)
	}
	stg.Entries[relPath] = &StagingEntry{
		Path:        relPath,
		Fingerprint: fingerprint(content),
		Size:        int64(len(content)),
	}
	r.log().Debug("staged", "path", relPath, "size", len(content))
	return nil
}

func (r *Repo) absPath(relPath string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(relPath))
}

// repoRelPath converts a path (absolute, or relative to CWD) into a path
// relative to the repository root. A relative path that does not resolve
// inside the repository from the CWD is taken as already repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return "", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err)
		}
		if escapesRoot(rel) {
			return "", fmt.Errorf("%q is outside the repository", p)
		}
		return filepath.ToSlash(rel), nil
	}

	clean := filepath.Clean(p)
	if escapesRoot(clean) {
		return "", fmt.Errorf("%q is outside the repository", p)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(clean), nil
	}
	rel, err := filepath.Rel(r.RootDir, filepath.Join(cwd, p))
	if err != nil || escapesRoot(rel) {
		return filepath.ToSlash(clean), nil
	}
	return filepath.ToSlash(rel), nil
}

func isRepoDirPath(rel string) bool {
	return rel == DirName || strings.HasPrefix(rel, DirName+"/")
}

func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
