// Package forgeerr defines the typed error kinds shared across the
// object store and reference resolver (compare cxdb's ServerError): every
// category is a Kind constant, and every error is a single
// payload-carrying *Error struct, matched by kind with Is/KindOf or
// errors.As. There are no separate sentinel error values.
package forgeerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories from the object store and
// reference resolver contracts.
type Kind string

const (
	Missing               Kind = "missing"
	NotFound              Kind = "not-found"
	Ambiguous             Kind = "ambiguous"
	MalformedCannotParse  Kind = "malformed:cannot-parse"
	MalformedBadLength    Kind = "malformed:bad-length"
	MalformedIdentity     Kind = "malformed:identity"
	TypeMismatch          Kind = "type-mismatch"
	InvalidKind           Kind = "invalid-kind"
	InvalidArgument       Kind = "invalid-argument"
	AlreadyExists         Kind = "already-exists"
	NotDirectory          Kind = "not-directory"
	NotEmpty              Kind = "not-empty"
	UnsupportedVersion    Kind = "unsupported-version"
	RefCycle              Kind = "ref-cycle"
	TagCycle              Kind = "tag-cycle"
)

// Error is the single error type returned by this module's core packages.
// Detail carries whatever payload the kind calls for: a hash, a name, a
// candidate list rendered as a string, etc.
type Error struct {
	Kind   Kind
	Detail string
	// Candidates holds the competing full hashes for an Ambiguous error.
	Candidates []string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &forgeerr.Error{Kind: forgeerr.NotFound}).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New constructs an Error of the given kind with a detail message.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Newf constructs an Error with a formatted detail message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// NewAmbiguous constructs an Ambiguous error carrying its candidate hashes.
func NewAmbiguous(name string, candidates []string) *Error {
	return &Error{Kind: Ambiguous, Detail: name, Candidates: candidates}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
