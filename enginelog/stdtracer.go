package enginelog

import (
	"log"

	"github.com/google/uuid"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
)

// StdTracer logs through the standard library logger, the same way
// scope.go's Log/Trace methods do underneath. Every line is prefixed
// with a per-instance run id so log lines from concurrently executing
// queries (or concurrent async-wrapped subtrees of the same query) can
// be told apart in a shared log stream.
type StdTracer struct {
	Verbose bool
	logger  *log.Logger
	runID   string
}

// NewStdTracer builds a tracer writing to logger (log.Default() if nil),
// tagging every line with a freshly generated run id.
func NewStdTracer(logger *log.Logger, verbose bool) *StdTracer {
	if logger == nil {
		logger = log.Default()
	}
	return &StdTracer{Verbose: verbose, logger: logger, runID: uuid.New().String()}
}

func (t *StdTracer) TraceExecuteBegin(blockName string, stack *aqlcall.Stack) {
	if !t.Verbose {
		return
	}
	t.logger.Printf("[%s] execute begin: %s depth=%d call=%+v", t.runID, blockName, stack.Depth(), stack.Top())
}

func (t *StdTracer) TraceExecuteEnd(blockName string, state engine.State, err error) {
	if err != nil {
		t.logger.Printf("[%s] execute end: %s state=%s err=%v", t.runID, blockName, state, err)
		return
	}
	if !t.Verbose {
		return
	}
	t.logger.Printf("[%s] execute end: %s state=%s", t.runID, blockName, state)
}

func (t *StdTracer) Log(format string, args ...interface{}) {
	t.logger.Printf("[%s] "+format, append([]interface{}{t.runID}, args...)...)
}

func (t *StdTracer) Trace(format string, args ...interface{}) {
	if !t.Verbose {
		return
	}
	t.logger.Printf("[%s] "+format, append([]interface{}{t.runID}, args...)...)
}
