package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) (string, error) {
	if len(h) < 3 || !isHex(string(h)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, h)
	}
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:])), nil
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	p, err := s.objectPath(h)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Write stores an object and returns its content hash. The on-disk format
// is "type len\0content". Writes are atomic: data is written to a temp
// file and then renamed into place.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	envelope := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := append([]byte(envelope), data...)

	h := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	dest := filepath.Join(dir, string(h[2:]))
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
// A missing object yields an error matching both ErrNotFound and
// os.ErrNotExist.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	p, err := s.objectPath(h)
	if err != nil {
		return "", nil, fmt.Errorf("object read: %w", err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w: %w", h, ErrNotFound, err)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	// Parse envelope: "type len\0content"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: invalid format (no NUL)", h)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("object read %s: invalid header %q", h, header)
	}
	objType := ObjectType(parts[0])
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: invalid length %q: %w", h, parts[1], err)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("object read %s: length mismatch (header=%d, actual=%d)", h, length, len(content))
	}

	return objType, content, nil
}

// List returns the hashes of all stored objects, sorted.
func (s *Store) List() ([]Hash, error) {
	objectsDir := filepath.Join(s.root, "objects")
	shards, err := os.ReadDir(objectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}

	var hashes []Hash
	for _, shard := range shards {
		if !shard.IsDir() || len(shard.Name()) != 2 {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(objectsDir, shard.Name()))
		if err != nil {
			return nil, fmt.Errorf("list objects %s: %w", shard.Name(), err)
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			h := Hash(shard.Name() + e.Name())
			if h.Valid() {
				hashes = append(hashes, h)
			}
		}
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	return hashes, nil
}

// VerifySummary reports what Verify checked.
type VerifySummary struct {
	Objects int
	ByType  map[ObjectType]int
}

// Verify re-hashes every stored object and fails on the first one whose
// content no longer matches its key.
func (s *Store) Verify() (*VerifySummary, error) {
	hashes, err := s.List()
	if err != nil {
		return nil, err
	}
	report := &VerifySummary{ByType: make(map[ObjectType]int)}
	for _, h := range hashes {
		objType, content, err := s.Read(h)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", h, err)
		}
		if actual := HashObject(objType, content); actual != h {
			return nil, fmt.Errorf("verify %s: hash mismatch (computed %s)", h, actual)
		}
		report.Objects++
		report.ByType[objType]++
	}
	return report, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, want)
	}
	return data, nil
}

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	return s.Write(TypeTree, MarshalTree(tr))
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(data)
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(data)
}
