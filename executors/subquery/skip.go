package subquery

import (
	"context"

	"github.com/arangodb/aql-engine/aqlcall"
	"github.com/arangodb/aql-engine/engine"
	"github.com/arangodb/aql-engine/regmap"
	"github.com/arangodb/aql-engine/rowblock"
)

// inputWidth reports how many registers the range's cached block
// carries, so a pass-through executor's scratch output can be sized to
// match instead of guessing a fixed width. An empty range (nothing
// cached yet) has no row to size against; 1 is a harmless placeholder
// since produce won't write anything in that case either.
func inputWidth(input *engine.InputRange) int {
	if !input.HasDataRow() {
		return 1
	}
	return input.Current().Block.NumRegisters()
}

// skipViaScratch runs produce into a throwaway output block and reports
// how many data rows it built as skipped; Start/End must still run
// their full pass-through logic to keep the shadow-row bracket
// structure consistent for whatever downstream observes next.
func skipViaScratch(ctx context.Context, produce func(context.Context, *engine.InputRange, *rowblock.OutputRow, aqlcall.Call) (engine.ProduceResult, error), input *engine.InputRange, numRegisters int, call aqlcall.Call) (engine.SkipResult, error) {
	regs := make([]regmap.Register, numRegisters)
	for i := range regs {
		regs[i] = regmap.Register(i)
	}
	regInfos := &regmap.RegisterInfos{NumRegisters: numRegisters, OutputRegisters: regs, RegistersToKeep: regs}
	scratch := rowblock.New(regInfos, 1<<30)

	result, err := produce(ctx, input, scratch, call)
	if err != nil {
		return engine.SkipResult{}, err
	}
	block := scratch.StealBlock()

	var skipped int64
	for i := 0; i < block.NumRows(); i++ {
		if !block.IsShadowRow(i) {
			skipped++
		}
	}
	return engine.SkipResult{State: result.State, Skipped: skipped, UpstreamCall: result.UpstreamCall}, nil
}
