package enginelog

import (
	"fmt"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
)

// Entry is one recorded trace line, grounded on the teacher's
// explain.descriptor shape (explain/logging_explainer.go).
type Entry struct {
	Block   string
	Event   string
	Detail  string
}

// ExplainTracer records a structured trace for tests and the
// --explain CLI flag, the idiomatic-Go analogue of the teacher's
// LoggingExplainer (which logs through scope.Log instead of
// accumulating a slice).
type ExplainTracer struct {
	Entries []Entry
}

func (t *ExplainTracer) TraceExecuteBegin(blockName string, stack *aqlcall.Stack) {
	t.Entries = append(t.Entries, Entry{
		Block:  blockName,
		Event:  "execute_begin",
		Detail: fmt.Sprintf("depth=%d call=%+v", stack.Depth(), stack.Top()),
	})
}

func (t *ExplainTracer) TraceExecuteEnd(blockName string, state engine.State, err error) {
	detail := state.String()
	if err != nil {
		detail = fmt.Sprintf("%s err=%v", detail, err)
	}
	t.Entries = append(t.Entries, Entry{Block: blockName, Event: "execute_end", Detail: detail})
}

func (t *ExplainTracer) Log(format string, args ...interface{}) {
	t.Entries = append(t.Entries, Entry{Event: "log", Detail: fmt.Sprintf(format, args...)})
}

func (t *ExplainTracer) Trace(format string, args ...interface{}) {
	t.Entries = append(t.Entries, Entry{Event: "trace", Detail: fmt.Sprintf(format, args...)})
}

// String renders the trace for golden-file comparison.
func (t *ExplainTracer) String() string {
	out := ""
	for _, e := range t.Entries {
		out += fmt.Sprintf("[%s] %s: %s\n", e.Event, e.Block, e.Detail)
	}
	return out
}
