package repo

import (
	"sync"
	"time"

	"github.com/odvcencio/minivc/pkg/object"
)

// CommitRecord is the in-memory view of a commit used for history
// traversal. Parent is empty for a root commit.
type CommitRecord struct {
	Hash      object.Hash
	Tree      object.Hash
	Parent    object.Hash
	Message   string
	Timestamp time.Time
	Signature string
}

// HasParent reports whether the commit has a parent.
func (c *CommitRecord) HasParent() bool {
	return c.Parent != ""
}

func recordFromObject(h object.Hash, c *object.CommitObj) *CommitRecord {
	return &CommitRecord{
		Hash:      h,
		Tree:      c.TreeHash,
		Parent:    c.Parent,
		Message:   c.Message,
		Timestamp: c.Timestamp,
		Signature: c.Signature,
	}
}

// commitRegistry caches commit records by hash. It is filled by Commit and
// by every commit read from the store, so history written by earlier
// sessions is reconstructed on demand.
type commitRegistry struct {
	mu     sync.RWMutex
	byHash map[object.Hash]*CommitRecord
}

func newCommitRegistry() *commitRegistry {
	return &commitRegistry{byHash: make(map[object.Hash]*CommitRecord)}
}

func (cr *commitRegistry) get(h object.Hash) (*CommitRecord, bool) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	c, ok := cr.byHash[h]
	return c, ok
}

func (cr *commitRegistry) put(c *CommitRecord) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.byHash[c.Hash] = c
}

func (cr *commitRegistry) len() int {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return len(cr.byHash)
}
