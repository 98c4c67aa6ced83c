package repo

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/odvcencio/minivc/pkg/diff"
)

func TestDiff_IdenticalIsEmpty(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "f.txt", "same\n", "first")

	report, err := r.Diff("f.txt")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("Diff of unchanged file = %+v, want empty", report.Records)
	}
	if report.String() != "" {
		t.Fatalf("rendered diff = %q, want empty", report.String())
	}
}

func TestDiff_ChangedLine(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "f.txt", "a\nb\nc\n", "first")
	writeFile(t, filepath.Join(r.RootDir, "f.txt"), "a\nB\nc\nd\n")

	report, err := r.Diff("f.txt")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	want := "Line 2: \n- b\n+ B\nLine 4: \n+ d\n"
	if got := report.String(); got != want {
		t.Fatalf("Diff =\n%s\nwant\n%s", got, want)
	}
}

func TestDiff_NestedPath(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "src/pkg/f.txt", "old\n", "first")
	writeFile(t, filepath.Join(r.RootDir, "src", "pkg", "f.txt"), "new\n")

	report, err := r.Diff("src/pkg/f.txt")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if report.Path != "src/pkg/f.txt" || len(report.Records) != 1 {
		t.Fatalf("Diff = %+v", report)
	}
}

func TestDiff_NotInHead(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "f.txt", "x\n", "first")
	writeFile(t, filepath.Join(r.RootDir, "g.txt"), "new\n")

	_, err := r.Diff("g.txt")
	if !errors.Is(err, ErrNotInHead) {
		t.Fatalf("Diff error = %v, want ErrNotInHead", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Diff error = %v, want it to match ErrNotFound", err)
	}
}

func TestDiff_NoCommits(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, filepath.Join(r.RootDir, "f.txt"), "x\n")

	_, err := r.Diff("f.txt")
	if !errors.Is(err, ErrNoCommits) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("Diff error = %v, want ErrNoCommits", err)
	}
}

func TestDiff_MissingWorkingFile(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "f.txt", "x\n", "first")

	if _, err := r.Diff("missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Diff error = %v, want ErrNotFound", err)
	}
}

func TestDiff_ModeFromConfig(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "f.txt", "a\nb\n", "first")
	writeFile(t, filepath.Join(r.RootDir, "f.txt"), "x\na\nb\n")

	cfg := DefaultConfig()
	cfg.Diff.Mode = string(diff.ModeMyers)
	if err := r.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	report, err := r.Diff("f.txt")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if report.Mode != diff.ModeMyers {
		t.Fatalf("Mode = %q, want myers", report.Mode)
	}
	want := []diff.Record{{Kind: diff.Added, Line: 1, New: "x"}}
	if len(report.Records) != 1 || report.Records[0] != want[0] {
		t.Fatalf("Records = %+v, want %+v", report.Records, want)
	}

	paired, err := r.DiffWithMode("f.txt", diff.ModePaired)
	if err != nil {
		t.Fatalf("DiffWithMode(paired): %v", err)
	}
	if len(paired.Records) != 3 {
		t.Fatalf("paired records = %+v, want 3 (cascade)", paired.Records)
	}
}

// A file edited across two commits and restored to the committed content
// diffs as empty, and history reads newest first.
func TestScenario_TwoCommitsThenDiff(t *testing.T) {
	r := newTestRepo(t)

	commitFile(t, r, "f", "v1", "first")
	commitFile(t, r, "f", "v2", "second")

	log, err := r.Log()
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(log) != 2 || log[0].Message != "second" || log[1].Message != "first" {
		t.Fatalf("Log messages = %+v, want [second first]", log)
	}
	if log[1].Parent != "" {
		t.Errorf("first commit parent = %q, want empty", log[1].Parent)
	}

	report, err := r.Diff("f")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("Diff = %+v, want empty", report.Records)
	}

	first, err := r.LookupCommit(log[1].Hash)
	if err != nil {
		t.Fatalf("LookupCommit: %v", err)
	}
	if first.Message != "first" || first.HasParent() {
		t.Fatalf("first commit = %+v", first)
	}
}
