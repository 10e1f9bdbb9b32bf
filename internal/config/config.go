// Package config reads the repository's INI-style configuration file:
// a `config` file at the metadata directory root, in the familiar
// `[core]`/`[user]` section shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/forge-vcs/forge/internal/forgeerr"
)

// SupportedRepositoryFormatVersion is the only core.repositoryformatversion
// value the core accepts.
const SupportedRepositoryFormatVersion = "0"

// Config holds the subset of git-config keys the core and CLI consult.
type Config struct {
	RepositoryFormatVersion string
	FileMode                bool
	Bare                    bool
	UserName                string
	UserEmail               string
}

// Default returns the values a fresh init writes.
func Default() *Config {
	return &Config{
		RepositoryFormatVersion: SupportedRepositoryFormatVersion,
		FileMode:                false,
		Bare:                    false,
	}
}

// Load reads <metaDir>/config. A missing file yields the defaults: init
// is expected to have written one, but callers operating on a bare
// metadata directory (tests, fixtures) should not be forced to create it.
func Load(metaDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(metaDir, "config")
	file, err := ini.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	core := file.Section("core")
	if core.HasKey("repositoryformatversion") {
		cfg.RepositoryFormatVersion = core.Key("repositoryformatversion").String()
	}
	cfg.FileMode = core.Key("filemode").MustBool(cfg.FileMode)
	cfg.Bare = core.Key("bare").MustBool(cfg.Bare)

	user := file.Section("user")
	cfg.UserName = user.Key("name").String()
	cfg.UserEmail = user.Key("email").String()

	if cfg.RepositoryFormatVersion != SupportedRepositoryFormatVersion {
		return nil, forgeerr.Newf(forgeerr.UnsupportedVersion, "core.repositoryformatversion=%s", cfg.RepositoryFormatVersion)
	}

	return cfg, nil
}

// Write renders cfg as the INI file init bootstraps a fresh repository
// with: filemode and bare are written per the on-disk layout contract
// even though the core never consults them again after Load.
func Write(metaDir string, cfg *Config) error {
	file := ini.Empty()

	core, err := file.NewSection("core")
	if err != nil {
		return fmt.Errorf("build config: %w", err)
	}
	if _, err := core.NewKey("repositoryformatversion", cfg.RepositoryFormatVersion); err != nil {
		return fmt.Errorf("build config: %w", err)
	}
	if _, err := core.NewKey("filemode", boolString(cfg.FileMode)); err != nil {
		return fmt.Errorf("build config: %w", err)
	}
	if _, err := core.NewKey("bare", boolString(cfg.Bare)); err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	if cfg.UserName != "" || cfg.UserEmail != "" {
		user, err := file.NewSection("user")
		if err != nil {
			return fmt.Errorf("build config: %w", err)
		}
		if cfg.UserName != "" {
			if _, err := user.NewKey("name", cfg.UserName); err != nil {
				return fmt.Errorf("build config: %w", err)
			}
		}
		if cfg.UserEmail != "" {
			if _, err := user.NewKey("email", cfg.UserEmail); err != nil {
				return fmt.Errorf("build config: %w", err)
			}
		}
	}

	path := filepath.Join(metaDir, "config")
	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
