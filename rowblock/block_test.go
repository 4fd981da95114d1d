package rowblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arangodb/aql-engine/aqlvalue"
	"github.com/arangodb/aql-engine/regmap"
)

func regInfos() *regmap.RegisterInfos {
	return &regmap.RegisterInfos{
		NumRegisters:    2,
		InputRegisters:  []regmap.Register{0},
		OutputRegisters: []regmap.Register{1},
		RegistersToKeep: []regmap.Register{0},
	}
}

func sourceBlock(t *testing.T) *Block {
	out := New(regInfos(), 10)
	src := InputRow{Block: out.block, Index: 0}
	for i := 0; i < 3; i++ {
		out.CloneValueInto(0, src, aqlvalue.Int(int64(i)))
		out.CloneValueInto(1, src, aqlvalue.Int(int64(i*10)))
		require.NoError(t, out.AdvanceRow())
	}
	return out.StealBlock()
}

func TestOutputRowRequiresWritableRegisters(t *testing.T) {
	out := New(regInfos(), 10)
	err := out.AdvanceRow()
	assert.ErrorIs(t, err, ErrRowNotProduced)

	out.WriteInvalidInputRow()
	err = out.AdvanceRow()
	assert.ErrorIs(t, err, ErrRowNotProduced, "register 1 is writable and was never written")
}

func TestOutputRowCopyRowPassesThroughRegisters(t *testing.T) {
	src := sourceBlock(t)

	out := New(regInfos(), 10)
	for i := 0; i < src.NumRows(); i++ {
		in := InputRow{Block: src, Index: i}
		out.CopyRow(in)
		out.CloneValueInto(1, in, aqlvalue.Int(999))
		require.NoError(t, out.AdvanceRow())
	}
	result := out.StealBlock()
	require.Equal(t, 3, result.NumRows())
	for i := 0; i < 3; i++ {
		v := result.Get(i, 0)
		n, _ := v.AsInt()
		assert.Equal(t, int64(i), n)
	}
}

func TestShadowRowCarriesAllRegistersAndTransformsDepth(t *testing.T) {
	src := NewBlock(2)
	src.appendRow([]aqlvalue.Value{aqlvalue.Int(1), aqlvalue.Int(2)}, 2, 0)

	out := New(&regmap.RegisterInfos{NumRegisters: 2, OutputRegisters: []regmap.Register{1}}, 10)
	in := InputRow{Block: src, Index: 0}
	out.CopyShadowRowWithDepth(in, 1)
	require.NoError(t, out.AdvanceRow())

	result := out.StealBlock()
	require.Equal(t, 1, result.NumRows())
	assert.Equal(t, 1, result.ShadowDepth(0))
	n, _ := result.Get(0, 0).AsInt()
	assert.Equal(t, int64(1), n)
}

func TestValidateShadowRows(t *testing.T) {
	b := NewBlock(1)
	b.appendRow([]aqlvalue.Value{aqlvalue.Int(1)}, 0, 0)
	b.appendRow([]aqlvalue.Value{aqlvalue.Int(2)}, 1, 1)
	assert.NoError(t, b.ValidateShadowRows())

	bad := NewBlock(1)
	bad.appendRow([]aqlvalue.Value{aqlvalue.Int(1)}, 2, 0)
	assert.Error(t, bad.ValidateShadowRows())
}
