// Package tree implements the binary encoding of directory entries
// used by tree objects: a concatenation of `mode SP path NUL
// raw-20-byte-hash` records, in the order they appear.
package tree

import (
	"bytes"
	"encoding/hex"

	"github.com/forge-vcs/forge/internal/forgeerr"
)

// Entry is one record in a tree body.
type Entry struct {
	Mode string // ASCII octal mode, e.g. "100644", no leading-zero normalization
	Path string // a single filename, not a multi-component path
	Hash string // 40-char lowercase hex, decoded from 20 raw bytes on parse
}

const (
	ModeRegular    = "100644"
	ModeExecutable = "100755"
	ModeSymlink    = "120000"
	ModeDirectory  = "40000"
	ModeGitlink    = "160000"
)

// Parse decodes a tree body into its ordered entries.
func Parse(body []byte) ([]Entry, error) {
	var entries []Entry
	cursor := 0

	for cursor < len(body) {
		sp := bytes.IndexByte(body[cursor:], ' ')
		if sp < 0 {
			return nil, forgeerr.New(forgeerr.MalformedCannotParse, "tree: missing mode separator")
		}
		mode := string(body[cursor : cursor+sp])
		cursor += sp + 1

		nul := bytes.IndexByte(body[cursor:], 0)
		if nul < 0 {
			return nil, forgeerr.New(forgeerr.MalformedCannotParse, "tree: missing path terminator")
		}
		path := string(body[cursor : cursor+nul])
		cursor += nul + 1

		if cursor+20 > len(body) {
			return nil, forgeerr.New(forgeerr.MalformedCannotParse, "tree: truncated hash")
		}
		rawHash := body[cursor : cursor+20]
		cursor += 20

		entries = append(entries, Entry{
			Mode: mode,
			Path: path,
			Hash: hex.EncodeToString(rawHash),
		})
	}

	return entries, nil
}

// Emit encodes entries back into a tree body, in the given order.
func Emit(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		rawHash, err := hex.DecodeString(e.Hash)
		if err != nil || len(rawHash) != 20 {
			return nil, forgeerr.Newf(forgeerr.MalformedCannotParse, "tree: bad hash for %s", e.Path)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(rawHash)
	}
	return buf.Bytes(), nil
}

// DisplayMode left-pads mode to six digits, the convention git ls-tree
// output follows (leading zeros preserved on display, never on wire).
func DisplayMode(mode string) string {
	for len(mode) < 6 {
		mode = "0" + mode
	}
	return mode
}
