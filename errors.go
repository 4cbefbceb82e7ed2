// Package jct provides the shared error vocabulary, configuration
// defaults, and size limits used by jct's sub-packages (value, codec,
// pathcursor, merge, jsonpath, resolve, iowrite) and by cmd/jct.
package jct

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error for exit-code mapping.
type Kind int

const (
	KindBadInput Kind = iota
	KindNotFound
	KindPermissionDenied
	KindIOFailure
	KindParseError
	KindEvalError
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "bad_input"
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindIOFailure:
		return "io_failure"
	case KindParseError:
		return "parse_error"
	case KindEvalError:
		return "eval_error"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the error type returned across component boundaries. Op
// names the failing operation, Kind drives exit-code mapping, and Err
// (when present) is the underlying cause.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("jct %s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("jct %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("jct %s failed", e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error wrapping cause (which may be nil).
func New(op string, kind Kind, message string, cause error) *Error {
	return &Error{Op: op, Kind: kind, Message: message, Err: cause}
}

// Wrap attaches op/kind context to cause; errors.Unwrap and errors.Is
// still reach the original failure.
func Wrap(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Message: cause.Error(), Err: errors.WithStack(cause)}
}

// KindOf extracts the Kind of err if it is, or wraps, an *Error,
// defaulting to KindInternal for anything else.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if asErr, ok := err.(*Error); ok {
			e = asErr
			break
		}
		err = errors.Unwrap(err)
	}
	if e == nil {
		return KindInternal
	}
	return e.Kind
}

// ExitCode maps a Kind to the process exit code of §6. ParseError's
// general mapping is 1 (malformed document content counts as "invalid
// input"); the path verb overrides ParseError to 2 specifically for a
// strict-mode JSONPath syntax error, per the exit-code table's
// "JSONPath parse error in strict mode" clause. The restore verb has
// its own, separately documented, exit codes and does not use this
// function.
func ExitCode(k Kind) int {
	switch k {
	case KindNotFound:
		return 2
	case KindEvalError:
		return 3
	case KindPermissionDenied:
		return 13
	case KindBadInput, KindIOFailure, KindParseError, KindInternal:
		return 1
	default:
		return 1
	}
}
