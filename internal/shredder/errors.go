package shredder

import (
	"fmt"

	"emperror.dev/errors"
)

type ErrorCode string

const (
	// ErrCodeNotFound is returned when a target vanished before or during
	// processing. On a re-run over a partially destroyed tree this is a normal
	// error, not corruption.
	ErrCodeNotFound ErrorCode = "E_NOTFOUND"
	// ErrCodeIsDirectory is returned when a file-only code path found a
	// directory at the target path.
	ErrCodeIsDirectory ErrorCode = "E_ISDIR"
	// ErrCodeIO covers any read, write, flush, rename or remove syscall
	// failure, tagged with the operation and path that failed.
	ErrCodeIO ErrorCode = "E_IO"
	// ErrCodeRenameExhausted marks that all randomized rename attempts
	// collided. It is only ever logged as a warning: removal falls back to the
	// original name because the content was already destroyed.
	ErrCodeRenameExhausted ErrorCode = "E_RENAME_EXHAUSTED"
	// ErrCodeResidualEntry is always fatal: the content was destroyed but the
	// entry could not be unlinked, leaving an artifact on disk.
	ErrCodeResidualEntry ErrorCode = "E_RESIDUAL"
)

type Error struct {
	code ErrorCode

	// op is the syscall-level operation that failed when the code is ErrCodeIO.
	op string

	// path is the file or directory the error applies to. For ErrCodeResidualEntry
	// this may be the anonymized name the entry was renamed to, not the name the
	// caller asked to destroy.
	path string

	err error
}

// newError wraps a shredder error with a given code and stack trace pointing at
// the caller.
func newError(code ErrorCode, path string, err error) error {
	return errors.WithStackDepth(&Error{code: code, path: path, err: err}, 1)
}

// newIOError tags an I/O failure with the operation and path it occurred on.
func newIOError(op string, path string, err error) error {
	return errors.WithStackDepth(&Error{code: ErrCodeIO, op: op, path: path, err: err}, 1)
}

// IsErrorCode checks if the given error is a shredder Error with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.code == code
	}
	return false
}

// Code returns the error code for this specific error instance.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Path returns the path associated with this error.
func (e *Error) Path() string {
	return e.path
}

// Unwrap returns the underlying cause, if one exists.
func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Error() string {
	switch e.code {
	case ErrCodeNotFound:
		return "shredder: target does not exist: " + e.path
	case ErrCodeIsDirectory:
		return "shredder: expected a regular file but found a directory: " + e.path
	case ErrCodeIO:
		return fmt.Sprintf("shredder: %s %s: %s", e.op, e.path, e.cause())
	case ErrCodeRenameExhausted:
		return "shredder: exhausted randomized rename attempts: " + e.path
	case ErrCodeResidualEntry:
		return fmt.Sprintf("shredder: content destroyed but entry could not be removed: %s: %s", e.path, e.cause())
	}
	return "shredder: unhandled error condition"
}

func (e *Error) cause() string {
	if e.err == nil {
		return "<no cause>"
	}
	return e.err.Error()
}
