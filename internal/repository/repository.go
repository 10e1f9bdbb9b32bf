// Package repository models the on-disk metadata directory (conventionally
// .git) that every other core package takes as its "repo" handle. It owns
// path layout and bootstrap; it never interprets object bytes.
package repository

import (
	"os"
	"path/filepath"

	"github.com/forge-vcs/forge/internal/config"
)

// DirName is the conventional metadata directory name.
const DirName = ".git"

// Repository is a non-owning handle to a metadata directory on disk.
// Packages that need lazy follow-loads (commit -> tree, tag -> object)
// take a *Repository argument explicitly rather than storing one inside
// parsed values, per the design note against back-references outliving
// their owner.
type Repository struct {
	metaDir string
	workDir string
	config  *config.Config
}

// Open loads an existing metadata directory at metaDir (e.g. "<work>/.git")
// and reads its config.
func Open(workDir, metaDir string) (*Repository, error) {
	cfg, err := config.Load(metaDir)
	if err != nil {
		return nil, err
	}
	return &Repository{metaDir: metaDir, workDir: workDir, config: cfg}, nil
}

// Discover walks up from startDir looking for a DirName directory,
// mirroring how git locates the repository root from a subdirectory.
func Discover(startDir string) (*Repository, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		meta := filepath.Join(dir, DirName)
		if info, err := os.Stat(meta); err == nil && info.IsDir() {
			return Open(dir, meta)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, os.ErrNotExist
		}
		dir = parent
	}
}

// Init bootstraps a fresh metadata directory at <workDir>/.git with the
// on-disk layout §6 describes: objects/, refs/{heads,tags}, HEAD,
// description, and a default config.
func Init(workDir string) (*Repository, error) {
	metaDir := filepath.Join(workDir, DirName)
	for _, sub := range []string{
		"objects",
		filepath.Join("refs", "heads"),
		filepath.Join("refs", "tags"),
	} {
		if err := os.MkdirAll(filepath.Join(metaDir, sub), 0755); err != nil {
			return nil, err
		}
	}

	headPath := filepath.Join(metaDir, "HEAD")
	if _, err := os.Stat(headPath); os.IsNotExist(err) {
		if err := os.WriteFile(headPath, []byte("ref: refs/heads/master\n"), 0644); err != nil {
			return nil, err
		}
	}

	descPath := filepath.Join(metaDir, "description")
	if _, err := os.Stat(descPath); os.IsNotExist(err) {
		desc := "Unnamed repository; edit this file 'description' to name the repository.\n"
		if err := os.WriteFile(descPath, []byte(desc), 0644); err != nil {
			return nil, err
		}
	}

	cfg := config.Default()
	if err := config.Write(metaDir, cfg); err != nil {
		return nil, err
	}

	return &Repository{metaDir: metaDir, workDir: workDir, config: cfg}, nil
}

// MetaDir returns the path to the metadata directory. It is absolute
// for a Discover'd repository; after Init it is <workDir>/.git built
// from the workDir as given, so a relative workDir yields a relative path.
func (r *Repository) MetaDir() string { return r.metaDir }

// WorkDir returns the path to the working directory, absolute or
// relative on the same terms as MetaDir.
func (r *Repository) WorkDir() string { return r.workDir }

// Config returns the repository's loaded configuration.
func (r *Repository) Config() *config.Config { return r.config }

// Path joins the metadata directory with the given relative components,
// e.g. Path("objects", hash[:2], hash[2:]).
func (r *Repository) Path(parts ...string) string {
	return filepath.Join(append([]string{r.metaDir}, parts...)...)
}
