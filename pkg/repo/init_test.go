package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/minivc/pkg/object"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init(%q): %v", dir, err)
	}
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}

	repoDir := filepath.Join(dir, DirName)
	if r.Dir != repoDir {
		t.Errorf("Dir = %q, want %q", r.Dir, repoDir)
	}

	assertDir(t, repoDir)
	assertFile(t, filepath.Join(repoDir, "HEAD"))
	assertFile(t, filepath.Join(repoDir, "config.toml"))
	assertDir(t, filepath.Join(repoDir, "objects"))
	assertDir(t, filepath.Join(repoDir, "refs", "heads"))
	assertDir(t, filepath.Join(repoDir, "logs", "refs", "heads"))
	assertFile(t, filepath.Join(repoDir, "refs", "heads", DefaultBranch))

	if r.Store == nil {
		t.Error("Store is nil after Init")
	}
}

func TestInit_ExistingRepo_Error(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if _, err := Init(dir); err == nil {
		t.Fatal("second Init should fail on existing repo, got nil error")
	}
}

func TestInitWithConfig_CustomDefaultBranch(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Core.DefaultBranch = "trunk"

	r, err := InitWithConfig(dir, cfg)
	if err != nil {
		t.Fatalf("InitWithConfig: %v", err)
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "trunk" {
		t.Errorf("CurrentBranch = %q, want %q", branch, "trunk")
	}
}

func TestInitWithConfig_InvalidDefaultBranch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Core.DefaultBranch = "bad name"

	_, err := InitWithConfig(t.TempDir(), cfg)
	if !errors.Is(err, ErrInvalidBranchName) {
		t.Fatalf("InitWithConfig error = %v, want ErrInvalidBranchName", err)
	}
}

func TestOpen_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sub := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	r, err := Open(sub)
	if err != nil {
		t.Fatalf("Open(%q): %v", sub, err)
	}
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}
}

func TestOpen_NoRepo_Error(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("Open on non-repo dir should fail, got nil error")
	}
}

func TestOpenOrInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	r1, err := OpenOrInit(dir)
	if err != nil {
		t.Fatalf("OpenOrInit (create): %v", err)
	}
	writeFile(t, filepath.Join(dir, "f.txt"), "v1\n")
	if err := r1.Add("f.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	h, err := r1.Commit("first")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	r2, err := OpenOrInit(dir)
	if err != nil {
		t.Fatalf("OpenOrInit (reopen): %v", err)
	}
	head, err := r2.HeadCommit()
	if err != nil {
		t.Fatalf("HeadCommit: %v", err)
	}
	if head != h {
		t.Errorf("reopened head = %s, want %s", head, h)
	}
}

func TestInit_HeadDefault(t *testing.T) {
	r := newTestRepo(t)

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if want := "refs/heads/" + DefaultBranch; head != want {
		t.Errorf("Head = %q, want %q", head, want)
	}

	h, err := r.HeadCommit()
	if err != nil {
		t.Fatalf("HeadCommit: %v", err)
	}
	if h != "" {
		t.Errorf("HeadCommit of unborn branch = %q, want empty", h)
	}
}

func TestUpdateRef_ResolveRef_RoundTrip(t *testing.T) {
	r := newTestRepo(t)

	h := object.Hash(strings.Repeat("ab", 32))
	if err := r.UpdateRef("refs/heads/feature", h); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}

	got, err := r.ResolveRef("refs/heads/feature")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if got != h {
		t.Errorf("ResolveRef = %q, want %q", got, h)
	}

	short, err := r.ResolveRef("feature")
	if err != nil {
		t.Fatalf("ResolveRef(short): %v", err)
	}
	if short != h {
		t.Errorf("ResolveRef(short) = %q, want %q", short, h)
	}
}

func TestResolveRef_HEAD_FollowsBranch(t *testing.T) {
	r := newTestRepo(t)

	h := object.Hash(strings.Repeat("cd", 32))
	if err := r.UpdateRef(branchRef(DefaultBranch), h); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}

	got, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if got != h {
		t.Errorf("ResolveRef(HEAD) = %q, want %q", got, h)
	}
}

func TestResolveRef_Missing(t *testing.T) {
	r := newTestRepo(t)

	for _, name := range []string{"nope", "../config.toml", "refs/heads/nope"} {
		_, err := r.ResolveRef(name)
		if !errors.Is(err, ErrBranchNotFound) {
			t.Errorf("ResolveRef(%q) error = %v, want ErrBranchNotFound", name, err)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ResolveRef(%q) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestHeadCommit_DetachedHead(t *testing.T) {
	r := newTestRepo(t)

	if err := os.WriteFile(filepath.Join(r.Dir, "HEAD"), []byte(strings.Repeat("ef", 32)+"\n"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
	if _, err := r.HeadCommit(); !errors.Is(err, ErrDetachedHead) {
		t.Fatalf("HeadCommit error = %v, want ErrDetachedHead", err)
	}
}

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", path, err)
	}
}

func assertDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected directory %q to exist: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be a directory", path)
	}
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file %q to exist: %v", path, err)
	}
	if info.IsDir() {
		t.Fatalf("expected %q to be a file, got directory", path)
	}
}
