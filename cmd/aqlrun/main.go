// Command aqlrun drives one of the canned end-to-end scenarios of
// spec.md §8 (S1-S7) through the engine and prints the resulting rows
// and stats, the same role the teacher's file_finder example plays for
// vfilter: a small flag-driven program that builds a scope (here, a
// plan) and evaluates it.
//
// Grounded on _examples/file_finder/main.go's kingpin.Parse() +
// evalQuery() shape, generalized from free-form VQL query arguments to
// scenario selection plus --explain/--resource-limit/--async flags.
package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/enginedriver"
	"github.com/arangodb/aql-engine/enginelog"
	"github.com/arangodb/aql-engine/enginestate"
	"github.com/arangodb/aql-engine/executors/async"
	"github.com/arangodb/aql-engine/executors/collect"
	"github.com/arangodb/aql-engine/executors/limit"
	"github.com/arangodb/aql-engine/executors/literal"
	"github.com/arangodb/aql-engine/executors/subquery"
	"github.com/arangodb/aql-engine/formatcache"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/resourcemonitor"
	"github.com/arangodb/aql-engine/rowblock"
)

var (
	scenario = kingpin.Flag("scenario", "canned scenario to run (S1-S7)").Default("S1").
			Enum("S1", "S2", "S3", "S4", "S5", "S6", "S7")
	explain       = kingpin.Flag("explain", "dump the execute-begin/execute-end trace").Bool()
	verbose       = kingpin.Flag("verbose", "log every execute begin/end through the standard logger").Bool()
	wrapAsync     = kingpin.Flag("async", "wrap the plan's root block in the async executor").Bool()
	resourceLimit = kingpin.Flag("resource-limit", "byte ceiling for the resource monitor, e.g. 64MiB (0 = unlimited)").
			Default("0").Bytes()
	locale = kingpin.Flag("locale", "BCP 47 locale tag for formatting the row/skip summary counts").Default("en").String()
)

// plan bundles a runnable root block with the call its outermost stage
// should be driven with and the register holding the row to print.
type plan struct {
	root          engine.Block
	call          aqlcall.Call
	printRegister regmap.Register
	describe      string
}

func intBlock(values []int64) *rowblock.Block {
	ri := &regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}
	out := rowblock.New(ri, rowblock.DefaultMaxBlockSize)
	var in rowblock.InputRow
	for _, v := range values {
		out.CloneValueInto(0, in, aqlvalue.Int(v))
		if err := out.AdvanceRow(); err != nil {
			panic(err)
		}
	}
	return out.StealBlock()
}

// shadowOnlyBlock builds n consecutive depth-1 shadow rows with no
// preceding data rows, standing in for a subquery whose body dropped
// every row (S6): an equivalent input to running SubqueryStart followed
// by a filter that matches nothing, without needing a standalone filter
// executor (out of scope for this engine's canned scenarios).
func shadowOnlyBlock(n int) *rowblock.Block {
	ri := &regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}
	out := rowblock.New(ri, rowblock.DefaultMaxBlockSize)
	var in rowblock.InputRow
	for i := 0; i < n; i++ {
		out.CloneValueInto(0, in, aqlvalue.Int(0))
		if err := out.AdvanceRow(); err != nil {
			panic(err)
		}
	}
	block := out.StealBlock()
	// AdvanceRow above produced data rows at depth 0; re-emit them as
	// depth-1 shadow rows by building a second OutputRow that copies
	// each one through with the transformed depth.
	shadowOut := rowblock.New(ri, rowblock.DefaultMaxBlockSize)
	for i := 0; i < block.NumRows(); i++ {
		shadowOut.CopyShadowRowWithDepth(rowblock.InputRow{Block: block, Index: i}, 1)
		if err := shadowOut.AdvanceRow(); err != nil {
			panic(err)
		}
	}
	return shadowOut.StealBlock()
}

func buildPlan(name string, tracer enginelog.Tracer, killed enginedriver.KillSwitch) plan {
	switch name {
	case "S1":
		src := literal.New(intBlock([]int64{1, 2, 3, 4}))
		ri := &regmap.RegisterInfos{NumRegisters: 1, RegistersToKeep: []regmap.Register{0}}
		d := enginedriver.New("limit", limit.New(0, 1, false), src, ri, tracer, killed)
		return plan{root: d, call: aqlcall.Unlimited(false), describe: "Limit(0,1,false) over [1,2,3,4]"}

	case "S2":
		src := literal.New(intBlock([]int64{1, 2, 3, 4}))
		ri := &regmap.RegisterInfos{NumRegisters: 1, RegistersToKeep: []regmap.Register{0}}
		d := enginedriver.New("limit", limit.New(0, 1, true), src, ri, tracer, killed)
		return plan{root: d, call: aqlcall.Unlimited(false), describe: "Limit(0,1,true) over [1,2,3,4]"}

	case "S3":
		src := literal.New(intBlock([]int64{1, 2, 3, 4}))
		ri := &regmap.RegisterInfos{NumRegisters: 1, RegistersToKeep: []regmap.Register{0}}
		d := enginedriver.New("limit", limit.New(1, 6, true), src, ri, tracer, killed)
		return plan{root: d, call: aqlcall.Unlimited(false), describe: "Limit(1,6,true) over [1,2,3,4]"}

	case "S4":
		// Limit's offset is pushed down to Distinct via SkipRowsRange,
		// which discards exactly that many distinct groups (not its
		// whole output) and leaves the rest for Limit to forward.
		src := literal.New(intBlock([]int64{1, 1, 1, 2, 3, 4, 4, 5}))
		distinctRI := &regmap.RegisterInfos{NumRegisters: 1, OutputRegisters: []regmap.Register{0}}
		groupCols := []collect.GroupColumn{{InRegister: 0, OutRegister: 0}}
		distinctDriver := enginedriver.New("distinct", collect.NewDistinct(groupCols), src, distinctRI, tracer, killed)
		limitRI := &regmap.RegisterInfos{NumRegisters: 1, RegistersToKeep: []regmap.Register{0}}
		limitDriver := enginedriver.New("limit", limit.New(2, aqlcall.Unbounded, true), distinctDriver, limitRI, tracer, killed)
		return plan{root: limitDriver, call: aqlcall.Unlimited(false), describe: "Distinct collect [1,2,3,4,5] + Limit(2,unbounded,true) over [1,1,1,2,3,4,4,5]"}

	case "S5":
		src := literal.New(intBlock([]int64{0, 1, 2, 3}))
		startRI := &regmap.RegisterInfos{NumRegisters: 1, RegistersToKeep: []regmap.Register{0}}
		startDriver := enginedriver.New("subquery_start", subquery.NewStart(), src, startRI, tracer, killed)
		countRI := &regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{1}, RegistersToKeep: []regmap.Register{0}}
		countDriver := enginedriver.New("count_collect", collect.NewCount(1), startDriver, countRI, tracer, killed)
		endRI := &regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{1}}
		endDriver := enginedriver.New("subquery_end", subquery.NewEnd(1, 1), countDriver, endRI, tracer, killed)
		return plan{root: endDriver, call: aqlcall.Unlimited(false), printRegister: 1,
			describe: "SubqueryStart . CountCollect . SubqueryEnd over [0,1,2,3]"}

	case "S6":
		src := literal.New(shadowOnlyBlock(4))
		countRI := &regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{1}, RegistersToKeep: []regmap.Register{0}}
		countDriver := enginedriver.New("count_collect", collect.NewCount(1), src, countRI, tracer, killed)
		endRI := &regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{1}}
		endDriver := enginedriver.New("subquery_end", subquery.NewEnd(1, 1), countDriver, endRI, tracer, killed)
		return plan{root: endDriver, call: aqlcall.Unlimited(false), printRegister: 1,
			describe: "SubqueryStart . (filter drops all) . CountCollect . SubqueryEnd over [0,1,2,3]"}

	case "S7":
		inner := buildPlan("S1", tracer, killed)
		shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
		a := async.New("async", inner.root, shared, killed)
		return plan{root: a, call: inner.call, printRegister: inner.printRegister,
			describe: "S1 wrapped in the async executor"}
	}
	panic("unknown scenario " + name)
}

// run drives root to completion, retrying on WAITING (the async
// executor's background task needs another Execute call once it has
// posted its result; a CLI has no outer event loop to resume it, so it
// just polls).
func run(ctx context.Context, root engine.Block, call aqlcall.Call) (*rowblock.Block, aqlcall.SkipResult, error) {
	stack := aqlcall.NewStack(call)
	merged := rowblock.NewBlock(0)
	skip := aqlcall.NewSkipResult()
	haveRegisters := false

	for {
		state, cumulativeSkip, block, err := root.Execute(ctx, stack)
		if err != nil {
			return nil, skip, err
		}
		// Execute returns the running cumulative skip total on every
		// call (enginedriver.Driver accumulates internally), not a
		// per-call delta, so the latest value simply replaces ours.
		skip = cumulativeSkip
		if block != nil && block.NumRows() > 0 {
			if !haveRegisters {
				merged = rowblock.NewBlock(block.NumRegisters())
				haveRegisters = true
			}
			merged = appendBlock(merged, block)
		}
		switch state {
		case engine.Done:
			return merged, skip, nil
		case engine.Waiting:
			time.Sleep(time.Millisecond)
		case engine.HasMore:
			// loop again immediately; more output may follow.
		}
	}
}

// appendBlock concatenates src's rows onto dst by replaying them
// through a fresh OutputRow, since rowblock.Block exposes no public
// append and blocks are meant to be built only via OutputRow.
func appendBlock(dst *rowblock.Block, src *rowblock.Block) *rowblock.Block {
	n := dst.NumRegisters()
	ri := &regmap.RegisterInfos{NumRegisters: n}
	for i := 0; i < n; i++ {
		ri.OutputRegisters = append(ri.OutputRegisters, regmap.Register(i))
	}
	out := rowblock.New(ri, rowblock.DefaultMaxBlockSize)
	for _, blk := range []*rowblock.Block{dst, src} {
		for row := 0; row < blk.NumRows(); row++ {
			if blk.IsShadowRow(row) {
				out.CopyShadowRowWithDepth(rowblock.InputRow{Block: blk, Index: row}, blk.ShadowDepth(row))
			} else {
				for reg := 0; reg < n; reg++ {
					out.CloneValueInto(regmap.Register(reg), rowblock.InputRow{Block: blk, Index: row}, blk.Get(row, regmap.Register(reg)))
				}
			}
			if err := out.AdvanceRow(); err != nil {
				panic(err)
			}
		}
	}
	return out.StealBlock()
}

func main() {
	kingpin.Parse()

	monitor := resourcemonitor.New(int64(*resourceLimit))

	tracer := enginelog.Tracer(enginelog.NopTracer{})
	if *verbose {
		tracer = enginelog.NewStdTracer(nil, true)
	}
	var explainTracer *enginelog.ExplainTracer
	if *explain {
		explainTracer = &enginelog.ExplainTracer{}
		tracer = explainTracer
	}

	killed := func() bool { return false }
	p := buildPlan(*scenario, tracer, killed)

	if *wrapAsync && *scenario != "S7" {
		shared := enginestate.NewSharedQueryState(enginestate.NewScheduler(4))
		p.root = async.New("async", p.root, shared, killed)
		p.describe += " (wrapped in async)"
	}

	fmt.Printf("scenario %s: %s\n", *scenario, p.describe)

	block, skip, err := run(context.Background(), p.root, p.call)
	kingpin.FatalIfError(err, "query execution failed")

	// Rough accounting pass against the configured ceiling: each
	// produced register slot costs an estimated 16 bytes.
	estimate := int64(block.NumRows() * block.NumRegisters() * 16)
	if err := monitor.Allocate(estimate); err != nil {
		fmt.Printf("resource monitor: %v\n", err)
	}

	for row := 0; row < block.NumRows(); row++ {
		if block.IsShadowRow(row) {
			continue
		}
		fmt.Printf("row %d: %s\n", row, block.Get(row, p.printRegister).String())
	}

	// Summary counts go through formatcache the same way a field
	// register's display value would: one cached printer per register,
	// reused across the whole summary (here registers 0 and 1 stand in
	// for "rows produced" and "rows skipped").
	tag, err := language.Parse(*locale)
	kingpin.FatalIfError(err, "invalid --locale")
	counts := formatcache.New(tag)
	fmt.Printf("rows produced: %s\n", counts.FormatInt(0, int64(block.NumRows())))
	fmt.Printf("skipped (depth 0): %s\n", counts.FormatInt(1, skip.At(0)))

	if explainTracer != nil {
		fmt.Print(explainTracer.String())
	}
}
