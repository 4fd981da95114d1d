// Package regmap implements the plan-side register bookkeeping described
// in spec.md §6: variables are assigned plan-wide register ids, and
// blocks only ever see register ids, never variable names.
package regmap

// Register is a fixed, plan-assigned integer slot within a row.
type Register int

// InvalidRegister is the sentinel for unmapped slots (spec.md §3).
const InvalidRegister Register = -1

// IsValid reports whether r refers to an actual slot.
func (r Register) IsValid() bool { return r != InvalidRegister }

// RegisterInfos describes how one block uses registers: which it reads,
// which it must write, which are cleared after use (to let the
// allocator reclaim large values) and which must be kept (pass-through
// registers carried from input to output unchanged).
type RegisterInfos struct {
	InputRegisters    []Register
	OutputRegisters   []Register
	RegistersToClear  []Register
	RegistersToKeep   []Register
	NumRegisters      int
}

// IsWritable reports whether reg is one of this block's output
// registers - the set that must be written before OutputRow.AdvanceRow
// is permitted (spec.md §4.1).
func (ri *RegisterInfos) IsWritable(reg Register) bool {
	for _, r := range ri.OutputRegisters {
		if r == reg {
			return true
		}
	}
	return false
}

// IsPassThrough reports whether reg must be copied from input to output
// unchanged by OutputRow.CopyRow.
func (ri *RegisterInfos) IsPassThrough(reg Register) bool {
	for _, r := range ri.RegistersToKeep {
		if r == reg {
			return true
		}
	}
	return false
}
