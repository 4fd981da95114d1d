// Package aqlerrors implements the error taxonomy of spec.md §7: a
// small set of sentinel errors that callers classify with errors.Is
// (see IsQueryKilled), wrapped with github.com/pkg/errors for stack traces the
// way the teacher wraps leaf errors before logging them.
package aqlerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors, one per spec.md §7 taxonomy entry.
var (
	ErrQueryKilled        = errors.New("QUERY_KILLED")
	ErrParse              = errors.New("PARSE_ERROR")
	ErrTypeMismatch       = errors.New("TYPE_MISMATCH")
	ErrResourceLimit      = errors.New("RESOURCE_LIMIT")
	ErrMemoryAllocation   = errors.New("MEMORY_ALLOCATION_ERROR")
	ErrInvalidFormat      = errors.New("INVALID_FORMAT_ERROR")
	ErrInternal           = errors.New("INTERNAL_AQL")
)

// Wrap annotates err with context and a stack trace, classified as the
// given sentinel so errors.Is(result, sentinel) still succeeds.
func Wrap(sentinel error, format string, args ...interface{}) error {
	return errors.Wrap(sentinel, fmt.Sprintf(format, args...))
}

// IsFatal reports whether err should tear down the query per spec.md
// §7's propagation policy, as opposed to a recoverable per-row
// aggregation error that degrades a group's result to NULL instead.
func IsFatal(err error) bool {
	return err != nil
}

// IsQueryKilled reports whether err (or a wrapped cause) is the
// cooperative-cancellation sentinel.
func IsQueryKilled(err error) bool { return errors.Is(err, ErrQueryKilled) }
