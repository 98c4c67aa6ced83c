package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/odvcencio/minivc/pkg/object"
)

// Branch is a named pointer to a commit. An empty Head means the branch is
// unborn.
type Branch struct {
	Name string
	Head object.Hash
}

// ValidateBranchName rejects names that cannot be stored as a ref file.
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBranchName)
	case name == "HEAD":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidBranchName, name)
	case strings.HasPrefix(name, "-"), strings.HasPrefix(name, "/"), strings.HasSuffix(name, "/"):
		return fmt.Errorf("%w: %q", ErrInvalidBranchName, name)
	case strings.Contains(name, ".."), strings.Contains(name, "//"), strings.HasSuffix(name, ".lock"):
		return fmt.Errorf("%w: %q", ErrInvalidBranchName, name)
	}
	for _, c := range name {
		if unicode.IsSpace(c) || unicode.IsControl(c) || strings.ContainsRune(`\:~^?*[`, c) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidBranchName, name, c)
		}
	}
	return nil
}

// Branch creates the branch name, or overwrites it if it already exists,
// pointing at the active branch's current head. The new branch is a copy:
// later commits on the active branch do not move it.
func (r *Repo) Branch(name string) error {
	if err := ValidateBranchName(name); err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	if err := r.updateRef(branchRef(name), head, "branch: created from "+current); err != nil {
		return fmt.Errorf("branch %q: %w", name, err)
	}
	return nil
}

// ListBranches returns every branch sorted by name.
func (r *Repo) ListBranches() ([]Branch, error) {
	refs, err := r.ListRefs("heads")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	branches := make([]Branch, 0, len(refs))
	for name, h := range refs {
		branches = append(branches, Branch{Name: strings.TrimPrefix(name, "heads/"), Head: h})
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

// CurrentBranch reads HEAD and returns the active branch name
// (e.g. "ref: refs/heads/master" → "master").
func (r *Repo) CurrentBranch() (string, error) {
	ref, err := r.headBranchRef()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	return strings.TrimPrefix(ref, "refs/heads/"), nil
}

func (r *Repo) branchExists(name string) (bool, error) {
	if ValidateBranchName(name) != nil {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(r.Dir, "refs", "heads", filepath.FromSlash(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Checkout makes name the active branch. It only repoints HEAD: files in
// the working directory are left exactly as they are (see
// CheckoutWorktree). An unknown branch fails with ErrBranchNotFound and
// leaves the active branch unchanged.
func (r *Repo) Checkout(name string) error {
	exists, err := r.branchExists(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if !exists {
		return fmt.Errorf("checkout %q: %w", name, ErrBranchNotFound)
	}
	return r.switchHead(name)
}

func (r *Repo) switchHead(name string) error {
	from, _ := r.CurrentBranch()
	oldHead, _ := r.HeadCommit()

	if err := r.writeHead(name); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	newHead, _, err := r.readRef(branchRef(name))
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.appendReflog("HEAD", oldHead, newHead, fmt.Sprintf("checkout: moving from %s to %s", from, name)); err != nil {
		r.log().Warn("reflog append failed", "ref", "HEAD", "err", err)
	}
	return nil
}
