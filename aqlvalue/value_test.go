package aqlvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOrdering(t *testing.T) {
	// null < bool < number < string < array < object, per spec.md §3.
	values := []Value{
		Null(),
		Bool(true),
		Int(5),
		String("x"),
		Array([]Value{Int(1)}),
		Object(nil),
	}
	for i := 0; i < len(values)-1; i++ {
		assert.Equal(t, -1, Compare(values[i], values[i+1]),
			"expected %v < %v", values[i], values[i+1])
	}
}

func TestNumericPromotion(t *testing.T) {
	require.Equal(t, 0, Compare(Int(3), Double(3.0)))
	require.True(t, Equal(Int(3), Double(3.0)))
	require.Equal(t, -1, Compare(Int(3), Double(3.5)))
	require.Equal(t, 1, Compare(Double(4.0), Int(3)))
}

func TestHashEqualityContract(t *testing.T) {
	// The mandatory contract from spec.md §3: equal values under
	// three-way compare must hash equal.
	pairs := [][2]Value{
		{Int(3), Double(3.0)},
		{String("abc"), String("abc")},
		{Array([]Value{Int(1), Int(2)}), Array([]Value{Int(1), Double(2.0)})},
		{Null(), Null()},
	}
	for _, p := range pairs {
		require.True(t, Equal(p[0], p[1]))
		assert.Equal(t, Hash(p[0]), Hash(p[1]))
	}
}

func TestHashInequalityIsUsuallyDistinct(t *testing.T) {
	assert.NotEqual(t, Hash(Int(1)), Hash(Int(2)))
	assert.NotEqual(t, Hash(String("a")), Hash(String("b")))
}

func TestCloneIsDeep(t *testing.T) {
	original := Array([]Value{String("a"), Int(1)})
	cloned := original.Clone()
	arr, _ := cloned.AsArray()
	origArr, _ := original.AsArray()
	arr[0] = String("mutated")
	assert.Equal(t, "a", origArr[0].String())
}

func TestGroupKeyEqualAndHash(t *testing.T) {
	k1 := GroupKey{Int(1), String("a")}
	k2 := GroupKey{Double(1.0), String("a")}
	require.True(t, k1.Equal(k2))
	assert.Equal(t, k1.Hash(), k2.Hash())

	k3 := GroupKey{Int(2), String("a")}
	require.False(t, k1.Equal(k3))
}
