package aqlvalue

// typeRank orders the major categories for cross-type comparisons:
// null < bool < number < string < array < object. Mirrors the ordering
// table in spec.md §3 and the teacher's cross-type fallback in
// protocols/protocol_lt.go (numbers promote against each other before
// falling through to a type-rank comparison).
func typeRank(v Value) int {
	switch v.typ {
	case TypeNull:
		return 0
	case TypeBool:
		return 1
	case TypeInt, TypeDouble:
		return 2
	case TypeString:
		return 3
	case TypeArray:
		return 4
	case TypeObject:
		return 5
	default:
		return 6
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compare implements the mandatory semantic three-way compare: -1 if a <
// b, 0 if equal, 1 if a > b. Numeric comparisons promote int<->double the
// same way protocols/protocol_lt.go's intLt/intEq do; arrays compare
// element by element, the shorter one being less when it is a prefix of
// the other, and objects compare as described on compareObjects - the
// "normalizes array/object structure" requirement of spec.md §3.
func Compare(a, b Value) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch a.typ {
	case TypeNull:
		return 0

	case TypeBool:
		ba, _ := a.AsBool()
		bb, _ := b.AsBool()
		return compareInt(boolRank(ba), boolRank(bb))

	case TypeInt, TypeDouble:
		fa, _ := a.AsFloat()
		fb, _ := b.AsFloat()
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
		return 0

	case TypeString:
		sa, _ := a.AsString()
		sb, _ := b.AsString()
		if sa < sb {
			return -1
		}
		if sa > sb {
			return 1
		}
		return 0

	case TypeArray:
		aa, _ := a.AsArray()
		ab, _ := b.AsArray()
		n := len(aa)
		if len(ab) < n {
			n = len(ab)
		}
		for i := 0; i < n; i++ {
			if c := Compare(aa[i], ab[i]); c != 0 {
				return c
			}
		}
		return compareInt(len(aa), len(ab))

	case TypeObject:
		return compareObjects(a, b)

	default:
		return 0
	}
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// compareObjects walks both objects' keys in sorted order: at the first
// position where the keys differ, the object whose key sorts first is
// less; where they match, the values under that key are compared. If
// one key list is a prefix of the other, the object with fewer keys is
// less - "normalizes ... object structure" per spec.md §3.
func compareObjects(a, b Value) int {
	oa, _ := a.AsObject()
	ob, _ := b.AsObject()
	if oa == nil && ob == nil {
		return 0
	}
	if oa == nil {
		return -1
	}
	if ob == nil {
		return 1
	}

	keysA := sortedKeys(oa)
	keysB := sortedKeys(ob)

	n := len(keysA)
	if len(keysB) < n {
		n = len(keysB)
	}
	for i := 0; i < n; i++ {
		if keysA[i] != keysB[i] {
			if keysA[i] < keysB[i] {
				return -1
			}
			return 1
		}
		va, _ := oa.Get(keysA[i])
		vb, _ := ob.Get(keysB[i])
		vva, okA := va.(Value)
		vvb, okB := vb.(Value)
		if okA && okB {
			if c := Compare(vva, vvb); c != 0 {
				return c
			}
		}
	}
	return compareInt(len(keysA), len(keysB))
}

func sortedKeys(d interface{ Keys() []string }) []string {
	keys := append([]string{}, d.Keys()...)
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// Equal reports whether Compare(a, b) == 0, the relation the hash
// contract in Hash must respect.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}
