// Package objstore presents typed object access on top of the loose
// object envelope (internal/objects), dispatching each kind's body to
// the message or tree codec.
package objstore

import (
	"github.com/forge-vcs/forge/internal/forgeerr"
	"github.com/forge-vcs/forge/internal/message"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/repository"
	"github.com/forge-vcs/forge/internal/tree"
)

// Object is a typed, decoded object. Exactly one of the typed fields is
// populated, matching Kind. It carries no reference to its repository
// (see the design note against storing back-references in parsed
// values) — follow operations take the *repository.Repository they
// need explicitly.
type Object struct {
	Kind Kind

	Blob   []byte
	Tree   []tree.Entry
	Commit *message.Message
	Tag    *message.Message
}

// Kind mirrors objects.Kind; re-exported so callers don't need to
// import the lower-level package for the common case.
type Kind = objects.Kind

const (
	KindBlob   = objects.KindBlob
	KindTree   = objects.KindTree
	KindCommit = objects.KindCommit
	KindTag    = objects.KindTag
)

// ReadObject loads and type-dispatches the object named by hash. If
// expectedKind is non-empty and the envelope's kind differs, it fails
// with TypeMismatch instead of decoding.
func ReadObject(repo *repository.Repository, hash string, expectedKind Kind) (*Object, error) {
	kind, body, err := objects.Load(repo, hash)
	if err != nil {
		return nil, err
	}
	if expectedKind != "" && kind != expectedKind {
		return nil, forgeerr.Newf(forgeerr.TypeMismatch, "%s: expected %s, got %s", hash, expectedKind, kind)
	}
	return decode(kind, body)
}

func decode(kind Kind, body []byte) (*Object, error) {
	switch kind {
	case KindBlob:
		return &Object{Kind: kind, Blob: body}, nil
	case KindTree:
		entries, err := tree.Parse(body)
		if err != nil {
			return nil, err
		}
		return &Object{Kind: kind, Tree: entries}, nil
	case KindCommit:
		msg, err := message.Parse(body)
		if err != nil {
			return nil, err
		}
		return &Object{Kind: kind, Commit: msg}, nil
	case KindTag:
		msg, err := message.Parse(body)
		if err != nil {
			return nil, err
		}
		return &Object{Kind: kind, Tag: msg}, nil
	default:
		return nil, forgeerr.New(forgeerr.InvalidKind, string(kind))
	}
}

// body renders obj's typed payload back to its wire-format bytes.
func body(obj *Object) ([]byte, error) {
	switch obj.Kind {
	case KindBlob:
		return obj.Blob, nil
	case KindTree:
		return tree.Emit(obj.Tree)
	case KindCommit:
		return message.Emit(obj.Commit), nil
	case KindTag:
		return message.Emit(obj.Tag), nil
	default:
		return nil, forgeerr.New(forgeerr.InvalidKind, string(obj.Kind))
	}
}

// WriteObject serializes obj via its kind's emitter, frames, and
// hashes it. When persist is true the framed bytes are stored through
// the object codec; otherwise the hash is computed without writing
// (a dry-run hash, e.g. for `hash-object` without `-w`).
func WriteObject(repo *repository.Repository, obj *Object, persist bool) (string, error) {
	raw, err := body(obj)
	if err != nil {
		return "", err
	}
	framed := objects.Frame(obj.Kind, raw)
	if persist {
		return objects.Store(repo, framed)
	}
	return objects.Hash(framed), nil
}

// HashFile reads path's bytes and constructs an object of the
// requested kind from them, treating the bytes as the blob content for
// KindBlob and as already-wire-formatted bytes for the other kinds
// (callers constructing a commit or tag file by hand are expected to
// have written it in wire form already).
func HashFile(repo *repository.Repository, path string, kind Kind, persist bool) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}

	var obj *Object
	switch kind {
	case KindBlob:
		obj = &Object{Kind: kind, Blob: data}
	case KindTree:
		entries, err := tree.Parse(data)
		if err != nil {
			return "", err
		}
		obj = &Object{Kind: kind, Tree: entries}
	case KindCommit:
		msg, err := message.Parse(data)
		if err != nil {
			return "", err
		}
		obj = &Object{Kind: kind, Commit: msg}
	case KindTag:
		msg, err := message.Parse(data)
		if err != nil {
			return "", err
		}
		obj = &Object{Kind: kind, Tag: msg}
	default:
		return "", forgeerr.New(forgeerr.InvalidKind, string(kind))
	}

	return WriteObject(repo, obj, persist)
}
