package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/odvcencio/minivc/pkg/object"
)

var ErrRefCASMismatch = errors.New("ref compare-and-swap mismatch")
var ErrRefUpdatedButReflogAppendFailed = errors.New("ref updated but reflog append failed")

// RefUpdateReflogError indicates the ref file update succeeded, but appending
// the corresponding reflog entry failed.
type RefUpdateReflogError struct {
	Ref     string
	OldHash object.Hash
	NewHash object.Hash
	Err     error
}

func (e *RefUpdateReflogError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf(
		"update ref %q: %s (old=%s new=%s): %v",
		e.Ref,
		ErrRefUpdatedButReflogAppendFailed,
		e.OldHash,
		e.NewHash,
		e.Err,
	)
}

func (e *RefUpdateReflogError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *RefUpdateReflogError) Is(target error) bool {
	return target == ErrRefUpdatedButReflogAppendFailed
}

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

// Init creates a new repository at path with the default configuration.
func Init(path string) (*Repo, error) {
	return InitWithConfig(path, DefaultConfig())
}

// InitWithConfig creates the .minivc/ directory structure: HEAD, config,
// objects/, refs/heads/ and an unborn default branch. Returns an error if
// a .minivc/ directory already exists.
func InitWithConfig(path string, cfg *Config) (*Repo, error) {
	dir := filepath.Join(path, DirName)

	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", dir)
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()
	branch := cfg.Core.DefaultBranch
	if err := ValidateBranchName(branch); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	dirs := []string{
		filepath.Join(dir, "objects"),
		filepath.Join(dir, "refs", "heads"),
		filepath.Join(dir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	r := newRepo(path, dir)
	if err := r.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.writeHead(branch); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	// The default branch starts unborn: an empty ref file.
	if err := os.WriteFile(r.refPath(branchRef(branch)), nil, 0o644); err != nil {
		return nil, fmt.Errorf("init: create branch %q: %w", branch, err)
	}
	return r, nil
}

// Open searches upward from path for a .minivc/ directory and opens the
// repository. Returns an error if no .minivc/ directory is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		dir := filepath.Join(cur, DirName)
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return newRepo(cur, dir), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a minivc repository (or any parent up to /)")
		}
		cur = parent
	}
}

// OpenOrInit opens the repository rooted exactly at path, creating it
// first when path has no .minivc/ directory.
func OpenOrInit(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}
	info, err := os.Stat(filepath.Join(abs, DirName))
	if err == nil && info.IsDir() {
		return newRepo(abs, filepath.Join(abs, DirName)), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("open: create directory: %w", err)
	}
	return Init(abs)
}

func branchRef(name string) string {
	return "refs/heads/" + name
}

func (r *Repo) refPath(ref string) string {
	return filepath.Join(r.Dir, filepath.FromSlash(ref))
}

func (r *Repo) writeHead(branch string) error {
	headPath := filepath.Join(r.Dir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: "+branchRef(branch)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}

// Head reads .minivc/HEAD. If the content starts with "ref: ", it returns
// the ref path (e.g., "refs/heads/master"). Otherwise it returns the raw
// content.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}

// headBranchRef returns the ref HEAD points at, which must be a branch.
func (r *Repo) headBranchRef() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(head, "refs/heads/") {
		return "", fmt.Errorf("%w: %q", ErrDetachedHead, head)
	}
	return head, nil
}

// HeadCommit returns the active branch's head commit, or "" when the
// branch is unborn.
func (r *Repo) HeadCommit() (object.Hash, error) {
	ref, err := r.headBranchRef()
	if err != nil {
		return "", err
	}
	h, _, err := r.readRef(ref)
	return h, err
}

// ResolveRef resolves a ref name to an object hash. An unborn branch
// resolves to "".
//
// Resolution order:
//  1. If name is "HEAD", read HEAD. If HEAD is symbolic, resolve the target ref.
//  2. If name starts with "refs/", read .minivc/<name>.
//  3. Otherwise, try "refs/heads/<name>".
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	if name == "HEAD" {
		head, err := r.Head()
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(head, "refs/") {
			return r.ResolveRef(head)
		}
		return object.Hash(head), nil
	}

	ref := name
	if !strings.HasPrefix(name, "refs/") {
		if ValidateBranchName(name) != nil {
			return "", fmt.Errorf("resolve ref %q: %w", name, ErrBranchNotFound)
		}
		ref = branchRef(name)
	}
	h, exists, err := r.readRef(ref)
	if err != nil {
		return "", fmt.Errorf("resolve ref %q: %w", name, err)
	}
	if !exists {
		return "", fmt.Errorf("resolve ref %q: %w", name, ErrBranchNotFound)
	}
	return h, nil
}

// readRef returns the hash stored in ref and whether the ref file exists.
func (r *Repo) readRef(ref string) (object.Hash, bool, error) {
	data, err := os.ReadFile(r.refPath(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return object.Hash(strings.TrimSpace(string(data))), true, nil
}

// UpdateRef writes a hash to the named ref file under .minivc/. Parent
// directories are created as needed.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	return r.UpdateRefCAS(name, h)
}

// UpdateRefCAS writes a hash to the named ref file under .minivc/ using
// lockfile + rename atomic semantics. If expectedOld is provided, the
// update only succeeds when the current ref hash matches it.
//
// Reflog append happens after the ref rename; if reflog append fails, the ref
// update remains committed and a RefUpdateReflogError is returned.
func (r *Repo) UpdateRefCAS(name string, h object.Hash, expectedOld ...object.Hash) error {
	return r.updateRef(name, h, "update", expectedOld...)
}

func (r *Repo) updateRef(name string, h object.Hash, reason string, expectedOld ...object.Hash) error {
	if len(expectedOld) > 1 {
		return fmt.Errorf("update ref %q: expected at most one old hash", name)
	}
	hasExpectedOld := len(expectedOld) == 1
	wantOldHash := object.Hash("")
	if hasExpectedOld {
		wantOldHash = expectedOld[0]
	}

	refPath := r.refPath(name)
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	oldHash, _, err := r.readRef(name)
	if err != nil {
		return fmt.Errorf("update ref %q: read old hash: %w", name, err)
	}
	if hasExpectedOld && oldHash != wantOldHash {
		return fmt.Errorf(
			"update ref %q: %w (expected %q, found %q)",
			name,
			ErrRefCASMismatch,
			wantOldHash,
			oldHash,
		)
	}

	if _, err := lockFile.WriteString(string(h) + "\n"); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	cleanupLock = false

	if err := r.appendReflog(name, oldHash, h, reason); err != nil {
		return &RefUpdateReflogError{
			Ref:     name,
			OldHash: oldHash,
			NewHash: h,
			Err:     err,
		}
	}
	return nil
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}
