package aqlvalue

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Hash computes a hash respecting the contract required by spec.md §3:
// if Compare(a, b) == 0 then Hash(a) == Hash(b). This is exercised by
// group-key lookups in executors/collect (hashed/distinct collect) and
// must therefore normalize int vs. double representations of the same
// numeric value, exactly like Compare's numeric promotion.
func Hash(v Value) uint64 {
	h := fnv.New64a()

	switch v.typ {
	case TypeNull:
		h.Write([]byte{byte(TypeNull)})

	case TypeBool:
		b, _ := v.AsBool()
		h.Write([]byte{byte(TypeBool), byte(boolRank(b))})

	case TypeInt, TypeDouble:
		// Numbers share a hash domain so that Int(3) and Double(3.0),
		// which compare equal, hash equal.
		f, _ := v.AsFloat()
		if f == 0 {
			f = 0 // -0.0 compares equal to 0.0, so it hashes as 0.0
		}
		h.Write([]byte{byte(TypeInt)})
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])

	case TypeString:
		s, _ := v.AsString()
		h.Write([]byte{byte(TypeString)})
		h.Write([]byte(s))

	case TypeArray:
		arr, _ := v.AsArray()
		h.Write([]byte{byte(TypeArray)})
		var buf [8]byte
		for _, item := range arr {
			binary.LittleEndian.PutUint64(buf[:], Hash(item))
			h.Write(buf[:])
		}

	case TypeObject:
		obj, ok := v.AsObject()
		h.Write([]byte{byte(TypeObject)})
		if ok && obj != nil {
			var buf [8]byte
			for _, key := range sortedKeys(obj) {
				h.Write([]byte(key))
				item, _ := obj.Get(key)
				if inner, ok := item.(Value); ok {
					binary.LittleEndian.PutUint64(buf[:], Hash(inner))
					h.Write(buf[:])
				}
			}
		}
	}

	return h.Sum64()
}

// GroupKey is a tuple of Values participating in the group-key
// hash/equal contract, used by the collect executors (spec.md §3).
type GroupKey []Value

// Hash combines the per-element hashes order-sensitively: two tuples
// that compare equal element-wise (same length, each element Equal)
// must produce the same combined hash.
func (k GroupKey) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range k {
		binary.LittleEndian.PutUint64(buf[:], Hash(v))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Equal reports whether two group-key tuples are element-wise equal.
func (k GroupKey) Equal(other GroupKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if !Equal(k[i], other[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tuple, used when a hashed-collect
// group is first created and must own its key (spec.md §4.5.3).
func (k GroupKey) Clone() GroupKey {
	cloned := make(GroupKey, len(k))
	for i, v := range k {
		cloned[i] = v.Clone()
	}
	return cloned
}
