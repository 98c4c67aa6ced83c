// Package repo implements the repository engine: staging, tree building,
// the commit graph, branches and the file diff against the head snapshot.
package repo

import (
	"errors"
	"log/slog"
	"time"

	"github.com/odvcencio/minivc/pkg/object"
)

// DirName is the repository-private directory at the working-tree root.
const DirName = ".minivc"

// ErrNotFound is matched by every "does not exist" failure of the engine:
// unknown objects, unknown branches, files absent from the head tree.
var ErrNotFound = object.ErrNotFound

var (
	ErrBranchNotFound error = notFoundError("branch not found")
	ErrNotInHead      error = notFoundError("file not found in the previous commit")
	ErrNoCommits      error = notFoundError("no commits yet")

	ErrInvalidBranchName  = errors.New("invalid branch name")
	ErrDirtyWorktree      = errors.New("working tree has uncommitted changes")
	ErrUntrackedOverwrite = errors.New("untracked working tree files would be overwritten")
	ErrDetachedHead       = errors.New("HEAD does not name a branch")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	Dir     string        // .minivc/ directory
	Store   *object.Store // content-addressed object store

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	now     func() time.Time
	commits *commitRegistry
}

func newRepo(root, dir string) *Repo {
	return &Repo{
		RootDir: root,
		Dir:     dir,
		Store:   object.NewStore(dir),
		now:     time.Now,
		commits: newCommitRegistry(),
	}
}

func (r *Repo) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (r *Repo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}
