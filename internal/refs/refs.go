// Package refs implements reference resolution (symbolic and direct,
// transitive) and the disambiguation algorithm that maps short hex
// prefixes and the symbolic name HEAD to full object identifiers.
package refs

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/forge-vcs/forge/internal/forgeerr"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/objstore"
	"github.com/forge-vcs/forge/internal/repository"
)

const (
	symbolicPrefix   = "ref: "
	maxRefChainDepth = 8
	maxTagChainDepth = 10
)

var (
	fullHashRE  = regexp.MustCompile(`^[0-9a-f]{40}$`)
	shortHashRE = regexp.MustCompile(`^[0-9a-f]{4,40}$`)
)

// Target names exactly one destination for CreateRef: a direct 40-hex
// hash, or a symbolic pointer at another reference path.
type Target struct {
	Direct   string
	Symbolic string
}

func (t Target) isDirect() bool   { return t.Direct != "" }
func (t Target) isSymbolic() bool { return t.Symbolic != "" }

// ResolveRef follows refPath (relative to the metadata directory)
// through any chain of symbolic indirection and returns its terminal
// content verbatim: 40 hex, or the literal token HEAD if a ref points
// at another unresolved symbolic sentinel. Chains longer than
// maxRefChainDepth fail with RefCycle.
func ResolveRef(repo *repository.Repository, refPath string) (string, error) {
	return resolveRefDepth(repo, refPath, 0)
}

func resolveRefDepth(repo *repository.Repository, refPath string, depth int) (string, error) {
	if depth > maxRefChainDepth {
		return "", forgeerr.New(forgeerr.RefCycle, refPath)
	}

	data, err := os.ReadFile(repo.Path(refPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", forgeerr.New(forgeerr.Missing, refPath)
		}
		return "", err
	}

	content := strings.TrimSuffix(string(data), "\n")
	if strings.HasPrefix(content, symbolicPrefix) {
		target := strings.TrimPrefix(content, symbolicPrefix)
		return resolveRefDepth(repo, target, depth+1)
	}
	return content, nil
}

// Node is one entry of the nested mapping ListRefs returns: either a
// leaf holding a resolved direct value, or a directory of further
// Nodes, ordered lexicographically by name.
type Node struct {
	Name     string
	Hash     string
	IsLeaf   bool
	Children []*Node
}

// ListRefs walks dir (relative to the metadata directory, default
// "refs") lexicographically and returns its nested structure for
// display. Unresolvable leaves (dangling or malformed refs) are
// skipped rather than aborting the whole walk.
func ListRefs(repo *repository.Repository, dir string) (*Node, error) {
	if dir == "" {
		dir = "refs"
	}
	return walkRefDir(repo, dir, filepath.Base(dir))
}

func walkRefDir(repo *repository.Repository, relPath, name string) (*Node, error) {
	absPath := repo.Path(relPath)
	entries, err := os.ReadDir(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Node{Name: name}, nil
		}
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	node := &Node{Name: name}
	for _, e := range entries {
		childRel := filepath.Join(relPath, e.Name())
		if e.IsDir() {
			child, err := walkRefDir(repo, childRel, e.Name())
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
			continue
		}

		hash, err := ResolveRef(repo, childRel)
		if err != nil {
			continue
		}
		node.Children = append(node.Children, &Node{Name: e.Name(), Hash: hash, IsLeaf: true})
	}
	return node, nil
}

// CreateRef writes name's reference file as either a direct hash or a
// symbolic pointer. It refuses to overwrite an existing ref unless
// force is set.
func CreateRef(repo *repository.Repository, name string, target Target, force bool) error {
	if target.isDirect() == target.isSymbolic() {
		return forgeerr.New(forgeerr.InvalidArgument, "target must be exactly one of direct or symbolic")
	}

	path := repo.Path(name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return forgeerr.New(forgeerr.AlreadyExists, name)
		}
	}

	var content string
	if target.isDirect() {
		content = target.Direct + "\n"
	} else {
		content = symbolicPrefix + target.Symbolic + "\n"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// DeleteRef resolves name (returning the hash it pointed to) and then
// removes its file.
func DeleteRef(repo *repository.Repository, name string) (string, error) {
	hash, err := ResolveRef(repo, name)
	if err != nil {
		return "", err
	}
	if err := os.Remove(repo.Path(name)); err != nil {
		if os.IsNotExist(err) {
			return "", forgeerr.New(forgeerr.Missing, name)
		}
		return "", err
	}
	return hash, nil
}

// ResolveName resolves a free-form identifier — HEAD, a full 40-hex
// hash, or an unambiguous hex prefix of length 4-40 — to a single full
// object hash.
func ResolveName(repo *repository.Repository, name string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return "", forgeerr.New(forgeerr.InvalidArgument, "empty name")
	}

	if trimmed == "head" {
		return ResolveRef(repo, "HEAD")
	}

	if fullHashRE.MatchString(trimmed) && objectExists(repo, trimmed) {
		return trimmed, nil
	}

	if shortHashRE.MatchString(trimmed) {
		return resolvePrefix(repo, trimmed)
	}

	return "", forgeerr.New(forgeerr.NotFound, name)
}

func objectExists(repo *repository.Repository, hash string) bool {
	_, err := os.Stat(objects.FanOutPath(repo, hash))
	return err == nil
}

func resolvePrefix(repo *repository.Repository, prefix string) (string, error) {
	candidates, err := candidatesForPrefix(repo, prefix)
	if err != nil {
		return "", err
	}

	switch len(candidates) {
	case 0:
		return "", forgeerr.New(forgeerr.NotFound, prefix)
	case 1:
		return candidates[0], nil
	default:
		sort.Strings(candidates)
		return "", forgeerr.NewAmbiguous(prefix, candidates)
	}
}

// candidatesForPrefix tries the bbolt accelerator first; a miss falls
// back to (and self-heals from) a live directory scan, so a freshly
// written object not yet indexed is still found. The index handle
// returned by acquireIndex is cached for the repository's metadata
// directory and reused by every later call, so only the first lookup
// in a process pays the cost of opening and building it.
func candidatesForPrefix(repo *repository.Repository, prefix string) ([]string, error) {
	idx, err := acquireIndex(repo)
	if err == nil {
		cached, err := idx.matches(prefix)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	live, scanErr := scanPrefixDir(repo, prefix)
	if scanErr != nil {
		return nil, scanErr
	}
	if idx != nil {
		for _, h := range live {
			_ = idx.add(h)
		}
	}
	return live, nil
}

func scanPrefixDir(repo *repository.Repository, prefix string) ([]string, error) {
	dirName := prefix[:2]
	tail := prefix[2:]

	entries, err := os.ReadDir(repo.Path("objects", dirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), tail) {
			matches = append(matches, dirName+e.Name())
		}
	}
	return matches, nil
}

// Find resolves name, then optionally type-follows the result to
// expectedKind: a tag is dereferenced through its `object` header, a
// commit is converted to the tree named in its `tree` header. follow
// controls whether this walk happens at all; the walk is capped at
// maxTagChainDepth steps to defend against cycles.
func Find(repo *repository.Repository, name string, expectedKind objects.Kind, follow bool) (string, error) {
	hash, err := ResolveName(repo, name)
	if err != nil {
		return "", err
	}
	if expectedKind == "" {
		return hash, nil
	}

	for steps := 0; steps < maxTagChainDepth; steps++ {
		obj, err := objstore.ReadObject(repo, hash, "")
		if err != nil {
			return "", err
		}
		if obj.Kind == expectedKind {
			return hash, nil
		}
		if !follow {
			return "", forgeerr.New(forgeerr.NotFound, name)
		}

		switch {
		case obj.Kind == objects.KindTag:
			next, ok := obj.Tag.Get("object")
			if !ok {
				return "", forgeerr.New(forgeerr.NotFound, name)
			}
			hash = next
		case obj.Kind == objects.KindCommit && expectedKind == objects.KindTree:
			next, ok := obj.Commit.Get("tree")
			if !ok {
				return "", forgeerr.New(forgeerr.NotFound, name)
			}
			hash = next
		default:
			return "", forgeerr.New(forgeerr.NotFound, name)
		}
	}
	return "", forgeerr.New(forgeerr.TagCycle, name)
}
