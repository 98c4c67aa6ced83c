package repo

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/odvcencio/minivc/pkg/object"
)

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path     string
	BlobHash object.Hash
}

// WriteTree snapshots every staged path: the file is re-read from disk,
// stored as a blob, and the paths are grouped into nested tree objects.
// It returns the root tree hash. Staged paths that no longer name a
// regular file are skipped.
func (r *Repo) WriteTree(s *Staging) (object.Hash, error) {
	blobs := make(map[string]object.Hash, len(s.Entries))
	for _, p := range s.Paths() {
		absPath := r.absPath(p)
		info, err := os.Stat(absPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				r.log().Debug("staged path vanished, skipping", "path", p)
				continue
			}
			return "", fmt.Errorf("write tree: stat %q: %w", p, err)
		}
		if !info.Mode().IsRegular() {
			r.log().Debug("staged path is not a regular file, skipping", "path", p)
			continue
		}

		content, err := os.ReadFile(absPath)
		if err != nil {
			return "", fmt.Errorf("write tree: read %q: %w", p, err)
		}
		h, err := r.Store.WriteBlob(&object.Blob{Data: content})
		if err != nil {
			return "", fmt.Errorf("write tree: blob %q: %w", p, err)
		}
		blobs[p] = h
	}
	return r.buildTreeDir(blobs, "")
}

// buildTreeDir builds a TreeObj for the given directory prefix and writes it
// to the store. It returns the tree's hash.
func (r *Repo) buildTreeDir(blobs map[string]object.Hash, prefix string) (object.Hash, error) {
	files := make(map[string]object.Hash) // name -> blob
	subdirs := make(map[string]struct{})  // immediate child dir names

	for p, h := range blobs {
		rel := p
		if prefix != "" {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rel = p[len(prefix)+1:]
		}

		if slash := strings.IndexByte(rel, '/'); slash >= 0 {
			subdirs[rel[:slash]] = struct{}{}
		} else {
			files[rel] = h
		}
	}

	names := make([]string, 0, len(files)+len(subdirs))
	for name := range files {
		names = append(names, name)
	}
	for name := range subdirs {
		// A name cannot be both a file and a directory.
		if _, isFile := files[name]; !isFile {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	entries := make([]object.TreeEntry, 0, len(names))
	for _, name := range names {
		if h, isFile := files[name]; isFile {
			entries = append(entries, object.TreeEntry{Name: name, Hash: h})
			continue
		}
		childPrefix := name
		if prefix != "" {
			childPrefix = prefix + "/" + name
		}
		subHash, err := r.buildTreeDir(blobs, childPrefix)
		if err != nil {
			return "", fmt.Errorf("build tree %q: %w", childPrefix, err)
		}
		entries = append(entries, object.TreeEntry{Name: name, IsDir: true, Hash: subHash})
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("write tree (prefix=%q): %w", prefix, err)
	}
	return h, nil
}

// FlattenTree walks a tree object recursively, returning all file entries
// with their full paths (using forward slashes).
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range treeObj.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Name)
		}

		if entry.IsDir {
			sub, err := r.flattenTreeRec(entry.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
			continue
		}
		result = append(result, TreeFileEntry{Path: fullPath, BlobHash: entry.Hash})
	}
	return result, nil
}

// TreeEntryAtPath resolves a slash-separated path inside a tree. The
// boolean is false when no file exists at that path.
func (r *Repo) TreeEntryAtPath(treeHash object.Hash, relPath string) (object.TreeEntry, bool, error) {
	parts := strings.Split(relPath, "/")
	current := treeHash

	for i, part := range parts {
		treeObj, err := r.Store.ReadTree(current)
		if err != nil {
			return object.TreeEntry{}, false, fmt.Errorf("read tree %s: %w", current, err)
		}

		idx := sort.Search(len(treeObj.Entries), func(j int) bool {
			return treeObj.Entries[j].Name >= part
		})
		if idx == len(treeObj.Entries) || treeObj.Entries[idx].Name != part {
			return object.TreeEntry{}, false, nil
		}
		entry := treeObj.Entries[idx]

		if i == len(parts)-1 {
			if entry.IsDir {
				return object.TreeEntry{}, false, nil
			}
			return entry, true, nil
		}
		if !entry.IsDir {
			return object.TreeEntry{}, false, nil
		}
		current = entry.Hash
	}
	return object.TreeEntry{}, false, nil
}

// headFiles flattens the tree of the active head commit into a path map.
// An unborn head yields an empty map.
func (r *Repo) headFiles() (map[string]object.Hash, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	return r.commitFiles(head)
}

func (r *Repo) commitFiles(h object.Hash) (map[string]object.Hash, error) {
	files := make(map[string]object.Hash)
	if h == "" {
		return files, nil
	}
	c, err := r.LookupCommit(h)
	if err != nil {
		return nil, err
	}
	entries, err := r.FlattenTree(c.Tree)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		files[e.Path] = e.BlobHash
	}
	return files, nil
}
