package repo

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/odvcencio/minivc/pkg/diff"
)

func TestConfig_DefaultsWrittenByInit(t *testing.T) {
	r := newTestRepo(t)

	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Core.DefaultBranch != DefaultBranch {
		t.Errorf("DefaultBranch = %q, want %q", cfg.Core.DefaultBranch, DefaultBranch)
	}
	mode, err := cfg.DiffMode()
	if err != nil {
		t.Fatalf("DiffMode: %v", err)
	}
	if mode != diff.ModePaired {
		t.Errorf("DiffMode = %q, want %q", mode, diff.ModePaired)
	}
	if cfg.Commit.Sign {
		t.Error("commit signing should be off by default")
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	r := newTestRepo(t)

	cfg := DefaultConfig()
	cfg.Diff.Mode = "myers"
	cfg.Commit.Sign = true
	cfg.Commit.SigningKey = "/home/me/.ssh/id_ed25519"
	if err := r.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	got, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if got.Diff.Mode != "myers" || !got.Commit.Sign || got.Commit.SigningKey != cfg.Commit.SigningKey {
		t.Fatalf("ReadConfig = %+v, want %+v", got, cfg)
	}
}

func TestReadConfig_MissingReturnsDefaults(t *testing.T) {
	r := newTestRepo(t)
	if err := os.Remove(r.configPath()); err != nil {
		t.Fatalf("Remove config: %v", err)
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Core.DefaultBranch != DefaultBranch || cfg.Diff.Mode != string(diff.ModePaired) {
		t.Fatalf("ReadConfig = %+v, want defaults", cfg)
	}
}

func TestReadConfig_RejectsUnknownDiffMode(t *testing.T) {
	r := newTestRepo(t)
	if err := os.WriteFile(r.configPath(), []byte("[diff]\nmode = \"patience\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := r.ReadConfig(); err == nil {
		t.Fatal("ReadConfig should reject an unknown diff mode")
	}
}

func TestReadConfig_WarnsOnUnknownKeys(t *testing.T) {
	r := newTestRepo(t)
	var logs bytes.Buffer
	r.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	if err := os.WriteFile(r.configPath(), []byte("[core]\ncolour = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := r.ReadConfig(); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if !strings.Contains(logs.String(), "core.colour") {
		t.Fatalf("expected warning naming core.colour, got %q", logs.String())
	}
}
