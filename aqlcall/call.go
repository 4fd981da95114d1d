// Package aqlcall implements the Call/Call Stack/Skip Result demand
// descriptors of spec.md §3: downstream requests expressed as
// offset/limit/fullCount, stacked one entry per active subquery depth.
package aqlcall

import "math"

// Unbounded stands in for an unlimited Limit ("infinity" in spec.md
// §4.5.1's "Upstream call is always {offset=0, limit=∞, ...}").
const Unbounded = math.MaxInt64

// Call is a downstream demand descriptor: offset rows must be
// produced-then-discarded before any are emitted; limit caps emitted
// rows; fullCount requires continuing to (silently) consume rows past
// the limit until upstream is DONE, counting them.
type Call struct {
	Offset    int64
	Limit     int64
	FullCount bool

	// SoftLimit is an optimizer hint (exceedable); HasSoftLimit reports
	// whether one was given (WithSoftLimit sets both). Without one,
	// Limit (the hard limit) governs entirely.
	SoftLimit int64
	HasSoftLimit bool
}

// NewCall builds a Call with the given offset/limit/fullCount and no
// soft limit.
func NewCall(offset, limit int64, fullCount bool) Call {
	return Call{Offset: offset, Limit: limit, FullCount: fullCount}
}

// Unlimited is the Call collect executors issue upstream for operations
// that must consume everything (spec.md §4.5.1 Count collect).
func Unlimited(fullCount bool) Call {
	return NewCall(0, Unbounded, fullCount)
}

// WithSoftLimit returns a copy of c with a soft limit hint attached.
func (c Call) WithSoftLimit(soft int64) Call {
	c.SoftLimit = soft
	c.HasSoftLimit = true
	return c
}

// Validate reports spec.md §7's PARSE_ERROR condition: an illegal call
// (negative offset/limit).
func (c Call) Validate() error {
	if c.Offset < 0 {
		return errInvalidCall("negative offset")
	}
	if c.Limit < 0 {
		return errInvalidCall("negative limit")
	}
	return nil
}

type invalidCallError struct{ reason string }

func (e *invalidCallError) Error() string { return "aqlcall: invalid call: " + e.reason }

func errInvalidCall(reason string) error { return &invalidCallError{reason: reason} }
