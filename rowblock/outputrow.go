package rowblock

import (
	"errors"

	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/regmap"
)

// ErrRowNotProduced is returned by AdvanceRow when a writable register
// was never written for the current row (spec.md §4.1 invariant).
var ErrRowNotProduced = errors.New("rowblock: not all writable registers were written before advanceRow")

// InputRow is a cursor into a source Block: the row an executor is
// currently transforming.
type InputRow struct {
	Block *Block
	Index int
}

// IsShadowRow reports whether the referenced input row is a shadow row.
func (r InputRow) IsShadowRow() bool { return r.Block.IsShadowRow(r.Index) }

// ShadowDepth returns the shadow depth of the referenced input row.
func (r InputRow) ShadowDepth() int { return r.Block.ShadowDepth(r.Index) }

// ValueGuard wraps a Value being moved into an output register via
// MoveValueInto; ownership transfers to the destination on success. If
// the write never happens the guard keeps the value and the caller
// can drop it (Go's GC reclaims it; no explicit destroy is required,
// but the guard shape mirrors the teacher's `moveValueInto` taking
// ownership from a temporary).
type ValueGuard struct {
	value Value
	taken bool
}

// Value is a re-export alias kept local so ValueGuard reads naturally.
type Value = aqlvalue.Value

// NewValueGuard wraps a Value for a single move.
func NewValueGuard(v Value) *ValueGuard { return &ValueGuard{value: v} }

// OutputRow is a cursor into a Block being built. It enforces that
// every writable register is written before a row is finalized, and
// that shadow rows are carried through with only their non-shadow
// registers copied automatically (spec.md §4.1).
type OutputRow struct {
	regInfos *regmap.RegisterInfos
	maxRows  int
	block    *Block

	current         []Value
	written         []bool
	rowStarted      bool
	currentShadow   int
	currentProv     int
}

// New creates an OutputRow targeting a fresh Block with the given
// register layout and row-count cap (DefaultMaxBlockSize if unset).
func New(regInfos *regmap.RegisterInfos, maxRows int) *OutputRow {
	if maxRows <= 0 {
		maxRows = DefaultMaxBlockSize
	}
	return &OutputRow{
		regInfos: regInfos,
		maxRows:  maxRows,
		block:    NewBlock(regInfos.NumRegisters),
	}
}

func (o *OutputRow) ensureStarted() {
	if o.rowStarted {
		return
	}
	o.current = make([]Value, o.regInfos.NumRegisters)
	o.written = make([]bool, o.regInfos.NumRegisters)
	o.currentShadow = 0
	o.currentProv = 0
	o.rowStarted = true
}

// CloneValueInto writes a deep copy of value into reg of the current
// output row.
func (o *OutputRow) CloneValueInto(reg regmap.Register, input InputRow, value Value) {
	o.ensureStarted()
	o.current[reg] = value.Clone()
	o.written[reg] = true
	o.currentProv = input.Index
}

// MoveValueInto writes the value held by guard into reg, transferring
// ownership (the guard is marked taken; a guard whose value was never
// moved is simply dropped by the caller on failure).
func (o *OutputRow) MoveValueInto(reg regmap.Register, input InputRow, guard *ValueGuard) {
	o.ensureStarted()
	o.current[reg] = guard.value
	guard.taken = true
	o.written[reg] = true
	o.currentProv = input.Index
}

// CopyRow copies all pass-through registers of inputRow into the
// current output row and counts them as written, so a register that is
// both kept and writable needs no separate write. Must be called at
// most once per row. If inputRow
// is a shadow row, all non-shadow (i.e. all) registers are carried
// through automatically and the shadow depth is recorded as-is; callers
// that need to transform the shadow depth (subquery end) should use
// CopyShadowRowWithDepth instead.
func (o *OutputRow) CopyRow(input InputRow) {
	o.ensureStarted()
	if input.IsShadowRow() {
		o.copyAllRegisters(input)
		o.currentShadow = input.ShadowDepth()
		return
	}
	for _, reg := range o.regInfos.RegistersToKeep {
		o.current[reg] = input.Block.Get(input.Index, reg)
		o.written[reg] = true
	}
	o.currentProv = input.Index
}

// CopyShadowRowWithDepth copies a shadow row through with its depth
// transformed to newDepth, per the block's own semantics (spec.md
// §4.1: "A shadow row must have its depth transformed according to the
// block's semantics"). Every register the input row has is copied
// unchanged (registers beyond the input block's width are left empty);
// only the depth differs from CopyRow's default passthrough.
func (o *OutputRow) CopyShadowRowWithDepth(input InputRow, newDepth int) {
	o.ensureStarted()
	o.copyAllRegisters(input)
	o.currentShadow = newDepth
}

func (o *OutputRow) copyAllRegisters(input InputRow) {
	for reg := 0; reg < o.regInfos.NumRegisters && reg < input.Block.NumRegisters(); reg++ {
		o.current[reg] = input.Block.Get(input.Index, regmap.Register(reg))
		o.written[reg] = true
	}
	o.currentProv = input.Index
}

// WriteInvalidInputRow starts a row with no backing input row, for the
// CreateInvalidInputRowHint case of spec.md §4.1 (a block with no
// meaningful input, e.g. after collapsing all rows to a single count,
// must still be able to emit one output row).
func (o *OutputRow) WriteInvalidInputRow() {
	o.ensureStarted()
}

// Produced reports whether the current row has been written at all.
func (o *OutputRow) Produced() bool { return o.rowStarted }

// IsFull reports whether the block has reached its row-count cap.
func (o *OutputRow) IsFull() bool { return o.block.NumRows() >= o.maxRows }

// AdvanceRow finalizes the current row and moves the cursor forward.
// It enforces that every writable register has been written, unless
// the row being finalized is a shadow row (in which case all registers
// were already carried through by CopyRow/CopyShadowRowWithDepth).
func (o *OutputRow) AdvanceRow() error {
	if !o.rowStarted {
		return ErrRowNotProduced
	}
	if o.currentShadow == 0 {
		for _, reg := range o.regInfos.OutputRegisters {
			if !o.written[reg] {
				return ErrRowNotProduced
			}
		}
	}
	o.block.appendRow(o.current, o.currentShadow, o.currentProv)
	o.rowStarted = false
	o.current = nil
	o.written = nil
	return nil
}

// StealBlock relinquishes the built block to the caller; the OutputRow
// must not be used to build further rows into the same Block afterward
// (a fresh OutputRow should be created for the next batch).
func (o *OutputRow) StealBlock() *Block {
	stolen := o.block
	o.block = NewBlock(o.regInfos.NumRegisters)
	return stolen
}

// CreateInvalidInputRowHint allows blocks with no meaningful input row
// (count collect on empty input, for example) to still finalize one
// output row built purely from WriteInvalidInputRow + CloneValueInto
// calls, with no pass-through registers expected.
const CreateInvalidInputRowHint = true
