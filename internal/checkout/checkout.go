// Package checkout implements the tree materializer: writing a tree
// object recursively onto a filesystem path.
package checkout

import (
	"os"
	"path/filepath"

	"github.com/forge-vcs/forge/internal/forgeerr"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/objstore"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/forge-vcs/forge/internal/repository"
	"github.com/forge-vcs/forge/internal/tree"
)

// Checkout resolves name to a tree (substituting a commit's tree when
// name names a commit) and materializes it under dest. dest must be
// either nonexistent or an empty directory. There is no rollback on a
// mid-walk failure; callers are expected to start from an empty
// destination.
//
// The returned slice lists the path of every gitlink (submodule)
// entry skipped during the walk, for the caller to warn about; it is
// nil when none were encountered.
func Checkout(repo *repository.Repository, name, dest string) ([]string, error) {
	hash, err := refs.Find(repo, name, objects.KindTree, true)
	if err != nil {
		return nil, err
	}

	if err := prepareDest(dest); err != nil {
		return nil, err
	}

	obj, err := objstore.ReadObject(repo, hash, objstore.KindTree)
	if err != nil {
		return nil, err
	}
	var skipped []string
	if err := writeTree(repo, obj.Tree, dest, &skipped); err != nil {
		return skipped, err
	}
	return skipped, nil
}

func prepareDest(dest string) error {
	info, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return os.MkdirAll(dest, 0755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return forgeerr.New(forgeerr.NotDirectory, dest)
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return forgeerr.New(forgeerr.NotEmpty, dest)
	}
	return nil
}

func writeTree(repo *repository.Repository, entries []tree.Entry, destDir string, skipped *[]string) error {
	for _, entry := range entries {
		target := filepath.Join(destDir, entry.Path)

		switch entry.Mode {
		case tree.ModeDirectory:
			obj, err := objstore.ReadObject(repo, entry.Hash, objstore.KindTree)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			if err := writeTree(repo, obj.Tree, target, skipped); err != nil {
				return err
			}

		case tree.ModeSymlink:
			obj, err := objstore.ReadObject(repo, entry.Hash, objstore.KindBlob)
			if err != nil {
				return err
			}
			if err := os.Symlink(string(obj.Blob), target); err != nil {
				return err
			}

		case tree.ModeGitlink:
			// Submodules are out of scope; record the path so the
			// caller can warn instead of checking out silently.
			*skipped = append(*skipped, target)
			continue

		default:
			obj, err := objstore.ReadObject(repo, entry.Hash, objstore.KindBlob)
			if err != nil {
				return err
			}
			mode := os.FileMode(0644)
			if entry.Mode == tree.ModeExecutable {
				mode = 0755
			}
			if err := os.WriteFile(target, obj.Blob, mode); err != nil {
				return err
			}
		}
	}
	return nil
}
