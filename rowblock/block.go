// Package rowblock implements the Row Block and Output Row abstractions
// of spec.md §4.1: a rectangular, column-major batch of Values plus a
// per-row shadow-depth column, built incrementally by an OutputRow and
// immutable once handed downstream.
//
// Grounded on the teacher's types/lazy.go LazyRow (register write
// discipline) and materializer/in_memory.go (materializing a row into a
// concrete structure), generalized from named columns to plan-assigned
// register ids.
package rowblock

import (
	"fmt"

	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/regmap"
)

// DefaultMaxBlockSize is the typical runtime parameter mentioned in
// spec.md §3 ("typical 1000").
const DefaultMaxBlockSize = 1000

// Block is a rectangular collection of Values: NumRows() rows by
// NumRegisters() registers, plus shadow depth and provenance per row.
// Blocks are immutable once built; they are shared by reference between
// consumers (spec.md §9 "shared ownership of row blocks").
type Block struct {
	numRegisters int
	rows         [][]aqlvalue.Value // rows[row][register]
	shadowDepth  []int
	provenance   []int
}

// NewBlock allocates an empty block for the given register count.
func NewBlock(numRegisters int) *Block {
	return &Block{numRegisters: numRegisters}
}

func (b *Block) NumRows() int { return len(b.rows) }

func (b *Block) NumRegisters() int { return b.numRegisters }

// Get returns the value at (row, register). Out-of-range register
// access is an engine bug (spec.md §7 INTERNAL_AQL), so this panics
// rather than silently returning null - callers are expected to only
// ever pass register ids derived from RegisterInfos.
func (b *Block) Get(row int, reg regmap.Register) aqlvalue.Value {
	if int(reg) < 0 || int(reg) >= b.numRegisters {
		panic(fmt.Sprintf("rowblock: register %d out of range [0,%d)", reg, b.numRegisters))
	}
	return b.rows[row][reg]
}

// ShadowDepth returns the shadow depth of a row: 0 for a data row, k>0
// for a boundary row collapsing k nested subquery invocations.
func (b *Block) ShadowDepth(row int) int { return b.shadowDepth[row] }

// IsShadowRow reports whether the given row is a shadow row.
func (b *Block) IsShadowRow(row int) bool { return b.shadowDepth[row] > 0 }

// Provenance returns the tracing index recorded for the row.
func (b *Block) Provenance(row int) int { return b.provenance[row] }

func (b *Block) appendRow(values []aqlvalue.Value, shadowDepth, provenance int) {
	b.rows = append(b.rows, values)
	b.shadowDepth = append(b.shadowDepth, shadowDepth)
	b.provenance = append(b.provenance, provenance)
}

// ValidateShadowRows checks one case of the shadow depth invariant of
// spec.md §3: it reports a shadow row of depth k>1 that starts the
// block or directly follows a data row. Other depth orderings are not
// checked. Used by the driver when debug validation is on (spec.md
// §4.3 step 6).
func (b *Block) ValidateShadowRows() error {
	prevShadow := 0
	for i := 0; i < b.NumRows(); i++ {
		d := b.shadowDepth[i]
		if d > 0 && d > prevShadow+1 && prevShadow == 0 {
			// A depth-k shadow (k>1) must be preceded by at least one
			// depth-(k-1) shadow or by data rows; we only catch the
			// cheap case here (no shadow seen yet but depth jumps).
			return fmt.Errorf("rowblock: shadow row at index %d has depth %d with no preceding depth-%d shadow", i, d, d-1)
		}
		if d > 0 {
			prevShadow = d
		} else {
			prevShadow = 0
		}
	}
	return nil
}
