package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/minivc/pkg/object"
)

// ErrOrphanCommit is matched by OrphanCommitError.
var ErrOrphanCommit = errors.New("commit written but no branch points at it")

// OrphanCommitError reports a commit that was stored while the active
// branch's ref was missing, so the head could not be advanced.
type OrphanCommitError struct {
	Hash object.Hash
	Ref  string
}

func (e *OrphanCommitError) Error() string {
	return fmt.Sprintf("commit %s: %s (ref %q is missing)", e.Hash, ErrOrphanCommit, e.Ref)
}

func (e *OrphanCommitError) Is(target error) bool {
	return target == ErrOrphanCommit
}

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be persisted in CommitObj.Signature.
type CommitSigner func(payload []byte) (string, error)

// Commit creates a new commit from the current staging area.
//
//  1. Read the active branch head as parent (empty when unborn)
//  2. Re-read every staged file and build the tree
//  3. Write the commit object and register it
//  4. Advance the branch ref with a compare-and-swap against the parent
//  5. Clear staging
//
// Nothing moves the branch if a step before 4 fails. If the branch ref
// itself is missing, the commit stays in the store and the returned error
// is an *OrphanCommitError alongside the hash; staging is kept.
func (r *Repo) Commit(message string) (object.Hash, error) {
	return r.CommitWithSigner(message, nil)
}

// CommitWithSigner creates a new commit and signs it when signer is provided.
func (r *Repo) CommitWithSigner(message string, signer CommitSigner) (object.Hash, error) {
	now := r.clock().UTC().Round(0)

	headRef, err := r.headBranchRef()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	parent, branchExists, err := r.readRef(headRef)
	if err != nil {
		return "", fmt.Errorf("commit: read %s: %w", headRef, err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	treeHash, err := r.WriteTree(stg)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	commitObj := &object.CommitObj{
		TreeHash:  treeHash,
		Parent:    parent,
		Message:   message,
		Timestamp: now,
	}
	if signer != nil {
		signature, err := signer(object.CommitSigningPayload(commitObj))
		if err != nil {
			return "", fmt.Errorf("commit: sign commit: %w", err)
		}
		commitObj.Signature = signature
	}

	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}
	r.commits.put(recordFromObject(commitHash, commitObj))

	if !branchExists {
		r.log().Warn("active branch ref is missing; commit is not reachable from any branch",
			"commit", string(commitHash), "ref", headRef)
		return commitHash, &OrphanCommitError{Hash: commitHash, Ref: headRef}
	}

	reason := "commit: " + firstLine(message)
	if parent == "" {
		reason = "commit (initial): " + firstLine(message)
	}
	if err := r.updateRef(headRef, commitHash, reason, parent); err != nil {
		if !errors.Is(err, ErrRefUpdatedButReflogAppendFailed) {
			return "", fmt.Errorf("commit: update ref %q: %w", headRef, err)
		}
		r.log().Warn("reflog append failed", "ref", headRef, "err", err)
	}
	r.log().Debug("commit created", "commit", string(commitHash), "parent", string(parent), "tree", string(treeHash))

	if err := r.ClearStaging(); err != nil {
		return commitHash, fmt.Errorf("commit: %w", err)
	}
	return commitHash, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// LookupCommit returns the commit with the given hash, from the in-memory
// registry or, failing that, from the store.
func (r *Repo) LookupCommit(h object.Hash) (*CommitRecord, error) {
	if c, ok := r.commits.get(h); ok {
		return c, nil
	}
	obj, err := r.Store.ReadCommit(h)
	if err != nil {
		if errors.Is(err, object.ErrTypeMismatch) {
			return nil, fmt.Errorf("lookup commit %s: %w (object is not a commit)", h, ErrNotFound)
		}
		return nil, fmt.Errorf("lookup commit: %w", err)
	}
	c := recordFromObject(h, obj)
	r.commits.put(c)
	return c, nil
}

// Log returns the history of the active branch, newest first. An unborn
// branch has an empty history.
func (r *Repo) Log() ([]CommitRecord, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	return r.LogFrom(head, 0)
}

// LogFrom walks the parent chain starting at start, returning up to limit
// commits newest first (all of them when limit <= 0). A parent that cannot
// be found ends the walk without an error.
func (r *Repo) LogFrom(start object.Hash, limit int) ([]CommitRecord, error) {
	var commits []CommitRecord
	current := start

	for current != "" && (limit <= 0 || len(commits) < limit) {
		c, err := r.LookupCommit(current)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				r.log().Warn("history truncated: commit not found", "commit", string(current))
				break
			}
			return nil, fmt.Errorf("log: %w", err)
		}
		commits = append(commits, *c)
		current = c.Parent
	}
	return commits, nil
}

// ResolveCommit turns a commit-ish into a commit hash. Accepted forms are
// "HEAD", a branch name, a full hash, or an unambiguous hash prefix of at
// least four characters.
func (r *Repo) ResolveCommit(ish string) (object.Hash, error) {
	ish = strings.TrimSpace(ish)
	if ish == "" {
		return "", fmt.Errorf("resolve commit: empty commit-ish")
	}

	if h, err := r.ResolveRef(ish); err == nil {
		if h == "" {
			return "", fmt.Errorf("resolve commit %q: %w", ish, ErrNoCommits)
		}
		return h, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("resolve commit %q: %w", ish, err)
	}

	h := object.Hash(strings.ToLower(ish))
	if h.Valid() {
		if _, err := r.LookupCommit(h); err != nil {
			return "", err
		}
		return h, nil
	}
	if len(h) < 4 {
		return "", fmt.Errorf("resolve commit %q: %w", ish, ErrNotFound)
	}

	all, err := r.Store.List()
	if err != nil {
		return "", fmt.Errorf("resolve commit %q: %w", ish, err)
	}
	var matches []object.Hash
	for _, candidate := range all {
		if !strings.HasPrefix(string(candidate), string(h)) {
			continue
		}
		if _, err := r.LookupCommit(candidate); err == nil {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve commit %q: %w", ish, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("resolve commit %q: ambiguous prefix (%d commits)", ish, len(matches))
	}
}
