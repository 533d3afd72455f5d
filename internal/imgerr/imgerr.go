// Package imgerr defines the error kinds surfaced across the image
// lifecycle engine (metadata store, object store, codec gateway, ingest
// and transcode pipelines).
package imgerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP status mapping and log handling.
type Kind int

const (
	// KindInternal wraps a database, filesystem, or codec failure.
	KindInternal Kind = iota
	// KindNotFound means no non-expired row exists for the identifier.
	KindNotFound
	// KindNotYetComputed means the row exists but computed=false.
	KindNotYetComputed
	// KindUnsupportedFormat means sniffing failed or the tag is unknown.
	KindUnsupportedFormat
	// KindBadIdentifier means the identifier string did not parse.
	KindBadIdentifier
	// kindConflict is a primary-key violation on insert. Never leaves the
	// metadata store / ingest / transcode packages — callers recover it
	// locally (mint retry, lazy-derivative race-loser discard).
	kindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNotYetComputed:
		return "not_yet_computed"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindBadIdentifier:
		return "bad_identifier"
	case kindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the typed error carried across package boundaries.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Msg: msg, cause: cause}
}

// Internal wraps cause as a KindInternal error.
func Internal(msg string, cause error) *Error { return newErr(KindInternal, msg, cause) }

// NotFound builds a KindNotFound error.
func NotFound(msg string) *Error { return newErr(KindNotFound, msg, nil) }

// NotYetComputed builds a KindNotYetComputed error.
func NotYetComputed(msg string) *Error { return newErr(KindNotYetComputed, msg, nil) }

// UnsupportedFormat builds a KindUnsupportedFormat error.
func UnsupportedFormat(msg string) *Error { return newErr(KindUnsupportedFormat, msg, nil) }

// BadIdentifier builds a KindBadIdentifier error.
func BadIdentifier(msg string) *Error { return newErr(KindBadIdentifier, msg, nil) }

// Conflict builds the internal-only kindConflict error.
func Conflict(msg string) *Error { return newErr(kindConflict, msg, nil) }

// Is reports whether err carries the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// IsConflict reports whether err is the internal PK-violation sentinel.
func IsConflict(err error) bool { return Is(err, kindConflict) }
