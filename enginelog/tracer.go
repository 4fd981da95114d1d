// Package enginelog implements the driver's tracing hooks. Grounded on
// the teacher's scope.Log/scope.Trace methods (scope.go, stdlib log
// underneath) and the Explainer interface of types/explain.go plus its
// concrete explain/logging_explainer.go implementation.
package enginelog

import (
	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
)

// Tracer is invoked by enginedriver.Driver around every Execute call
// (spec.md §4.3 traceExecuteBegin/traceExecuteEnd) and by executors
// that want to log or explain their own decisions.
type Tracer interface {
	TraceExecuteBegin(blockName string, stack *aqlcall.Stack)
	TraceExecuteEnd(blockName string, state engine.State, err error)
	Log(format string, args ...interface{})
	Trace(format string, args ...interface{})
}

// NopTracer discards everything; the default when no tracer is wired.
type NopTracer struct{}

func (NopTracer) TraceExecuteBegin(string, *aqlcall.Stack)        {}
func (NopTracer) TraceExecuteEnd(string, engine.State, error)     {}
func (NopTracer) Log(string, ...interface{})                      {}
func (NopTracer) Trace(string, ...interface{})                    {}
