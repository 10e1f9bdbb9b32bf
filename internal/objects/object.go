// Package objects implements the loose-object envelope: framing,
// SHA-1 hashing, zlib compression, and the fan-out on-disk layout
// shared by all four object kinds. It is the lowest-level component;
// it knows nothing about commit, tag, or tree bodies — those are
// opaque byte slices here.
//
// Compression uses klauspost/compress/zlib, a drop-in replacement for
// the standard library's compress/zlib with the same Reader/Writer
// API (see DESIGN.md for why this is preferred over stdlib here).
package objects

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zlib"

	"github.com/forge-vcs/forge/internal/forgeerr"
	"github.com/forge-vcs/forge/internal/repository"
)

// Kind is one of the four object kinds recognized by the envelope.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
	KindTag    Kind = "tag"
)

// Valid reports whether k is one of the four recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBlob, KindTree, KindCommit, KindTag:
		return true
	}
	return false
}

// Frame returns the envelope bytes `<kind> SP <len> NUL <body>` that
// hashing and storage operate on.
func Frame(kind Kind, body []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(body))
	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	out = append(out, body...)
	return out
}

// Hash returns the lowercase hex SHA-1 of already-framed bytes.
func Hash(framed []byte) string {
	sum := sha1.Sum(framed)
	return hex.EncodeToString(sum[:])
}

// FanOutPath returns the on-disk path for a full 40-hex object hash,
// relative to the repository's metadata directory: objects/<xx>/<rest>.
func FanOutPath(repo *repository.Repository, hash string) string {
	return repo.Path("objects", hash[:2], hash[2:])
}

// Store compresses framed and writes it to its fan-out path, computing
// the hash from framed itself. Writing is via temp-file-plus-rename so a
// concurrent reader never observes a partial file; rewriting identical
// bytes to an existing object is a no-op.
func Store(repo *repository.Repository, framed []byte) (string, error) {
	hash := Hash(framed)
	path := FanOutPath(repo, hash)

	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create object dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-obj-*")
	if err != nil {
		return "", fmt.Errorf("create temp object: %w", err)
	}
	tmpPath := tmp.Name()

	zw := zlib.NewWriter(tmp)
	_, writeErr := zw.Write(framed)
	closeZErr := zw.Close()
	closeErr := tmp.Close()

	if writeErr != nil || closeZErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if writeErr != nil {
			return "", fmt.Errorf("compress object %s: %w", hash, writeErr)
		}
		if closeZErr != nil {
			return "", fmt.Errorf("finalize compression for %s: %w", hash, closeZErr)
		}
		return "", fmt.Errorf("close temp object %s: %w", hash, closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename object %s into place: %w", hash, err)
	}

	return hash, nil
}

// Load reads, decompresses, and unframes the object named by hash,
// returning its kind and body: Missing when the file is absent,
// Malformed:cannot-parse when the header delimiters or length are
// unparseable, Malformed:bad-length when the decoded length doesn't
// match the remaining bytes.
func Load(repo *repository.Repository, hash string) (Kind, []byte, error) {
	path := FanOutPath(repo, hash)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, forgeerr.New(forgeerr.Missing, hash)
		}
		return "", nil, fmt.Errorf("open object %s: %w", hash, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, forgeerr.Newf(forgeerr.MalformedCannotParse, "%s: zlib: %v", hash, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, forgeerr.Newf(forgeerr.MalformedCannotParse, "%s: inflate: %v", hash, err)
	}

	sp := bytes.IndexByte(raw, ' ')
	if sp < 0 {
		return "", nil, forgeerr.New(forgeerr.MalformedCannotParse, hash)
	}
	nul := bytes.IndexByte(raw[sp+1:], 0)
	if nul < 0 {
		return "", nil, forgeerr.New(forgeerr.MalformedCannotParse, hash)
	}
	nul += sp + 1

	kind := Kind(raw[:sp])
	lengthStr := string(raw[sp+1 : nul])
	length, err := strconv.Atoi(lengthStr)
	if err != nil {
		return "", nil, forgeerr.New(forgeerr.MalformedCannotParse, hash)
	}

	body := raw[nul+1:]
	if length != len(body) {
		return "", nil, forgeerr.Newf(forgeerr.MalformedBadLength, "%s: header says %d, got %d", hash, length, len(body))
	}

	return kind, body, nil
}
