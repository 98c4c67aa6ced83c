package object

import (
	"errors"
	"time"
)

// Hash is a 64-character hex-encoded SHA-256 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

var (
	// ErrNotFound is returned when no object exists for a hash.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidHash is returned for hashes that cannot address an object.
	ErrInvalidHash = errors.New("invalid object hash")
	// ErrTypeMismatch is returned when a typed read finds another kind.
	ErrTypeMismatch = errors.New("object type mismatch")
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. IsDir entries reference a
// nested tree; all others reference a blob.
type TreeEntry struct {
	Name  string
	IsDir bool
	Hash  Hash
}

// TreeObj holds a sorted list of tree entries.
type TreeObj struct {
	Entries []TreeEntry // sorted by Name
}

// CommitObj represents a commit pointing to a tree with metadata.
// Parent is empty for a root commit.
type CommitObj struct {
	TreeHash  Hash
	Parent    Hash
	Message   string
	Timestamp time.Time
	Signature string
}
