// Package failure classifies the fatal error kinds surfaced by the analysis pipeline.
package failure

import (
	"errors"
	"io/fs"
	"os"
)

// Kind identifies a class of fatal error.
type Kind string

const (
	KindMissingCapability Kind = "missing_capability"
	KindFileNotFound      Kind = "file_not_found"
	KindParse             Kind = "parse_error"
	KindIO                Kind = "io_error"
	KindMissingColumn     Kind = "missing_column"
	KindUnknown           Kind = "unknown"
)

// Error wraps an error with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with the given kind. A nil err yields nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain. Bare
// filesystem errors are classified as well, so callers do not need to wrap
// every os call.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	if errors.Is(err, fs.ErrNotExist) {
		return KindFileNotFound
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}

	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
