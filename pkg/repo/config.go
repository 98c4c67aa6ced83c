package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/minivc/pkg/diff"
)

// DefaultBranch is the branch a new repository starts on.
const DefaultBranch = "master"

// Config stores repository-local settings, persisted as
// .minivc/config.toml.
type Config struct {
	Core   CoreConfig   `toml:"core"`
	Diff   DiffConfig   `toml:"diff"`
	Commit CommitConfig `toml:"commit"`
}

type CoreConfig struct {
	DefaultBranch string `toml:"default_branch"`
}

type DiffConfig struct {
	// Mode is "paired" or "myers".
	Mode string `toml:"mode"`
}

type CommitConfig struct {
	Sign       bool   `toml:"sign"`
	SigningKey string `toml:"signing_key,omitempty"`
}

// DefaultConfig returns the configuration written by Init.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Core.DefaultBranch) == "" {
		c.Core.DefaultBranch = DefaultBranch
	}
	if strings.TrimSpace(c.Diff.Mode) == "" {
		c.Diff.Mode = string(diff.ModePaired)
	}
}

// DiffMode returns the configured diff algorithm.
func (c *Config) DiffMode() (diff.Mode, error) {
	return diff.ParseMode(c.Diff.Mode)
}

func (r *Repo) configPath() string {
	return filepath.Join(r.Dir, "config.toml")
}

// ReadConfig reads .minivc/config.toml. A missing file yields the defaults.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(r.configPath(), cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		r.log().Warn("unknown config keys ignored", "keys", fmt.Sprint(undecoded))
	}
	cfg.applyDefaults()
	if _, err := cfg.DiffMode(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes .minivc/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()
	if _, err := cfg.DiffMode(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	tmp, err := os.CreateTemp(r.Dir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
