package value

import "github.com/shipq/proptest/proptest"

// DefaultDepth bounds the nesting of Default.
const DefaultDepth = 3

// Size limits of generated payloads.
const (
	maxLeafBytes = 64
	maxItems     = 4
	maxPairs     = 3
	maxConstrTag = 6
)

// Default is Fuzzer(DefaultDepth).
func Default() proptest.Fuzzer[Value] {
	return Fuzzer(DefaultDepth)
}

// Fuzzer draws a kind byte b and builds a value of at most maxDepth levels
// of nesting. Once the depth is used up only leaves are produced (kind
// b%3: int, bytes, bool). Otherwise:
//
//	b <  64   Int leaf
//	b < 128   Bytes leaf of 0..64 bytes
//	b < 144   bool
//	b < 192   List of 0..4 values
//	b < 224   Map of 0..3 pairs
//	else      Constr with tag 0..6 and 0..4 fields
func Fuzzer(maxDepth int) proptest.Fuzzer[Value] {
	return proptest.AndThen(proptest.Byte(), func(b byte) proptest.Fuzzer[Value] {
		if maxDepth <= 0 {
			return leaf(b % 3)
		}
		switch {
		case b < 64:
			return leaf(0)
		case b < 128:
			return leaf(1)
		case b < 144:
			return leaf(2)
		}

		// Fuzzer(maxDepth-1) is built lazily so that construction stays
		// proportional to the depth actually reached.
		child := func(s proptest.State) (proptest.State, Value, bool) {
			return Fuzzer(maxDepth - 1)(s)
		}
		switch {
		case b < 192:
			return proptest.Map(proptest.ListBetween[Value](child, 0, maxItems), func(items []Value) Value {
				return List{Items: items}
			})
		case b < 224:
			pair := proptest.Map2[Value, Value](child, child, func(k, v Value) Pair {
				return Pair{Key: k, Value: v}
			})
			return proptest.Map(proptest.ListBetween(pair, 0, maxPairs), func(pairs []Pair) Value {
				return Map{Pairs: pairs}
			})
		default:
			return proptest.Map2(
				proptest.IntBetween(0, maxConstrTag),
				proptest.ListBetween[Value](child, 0, maxItems),
				func(tag int, fields []Value) Value {
					return Constr{Tag: tag, Fields: fields}
				},
			)
		}
	})
}

func leaf(kind byte) proptest.Fuzzer[Value] {
	switch kind {
	case 0:
		return proptest.Map(proptest.Int(), func(n int) Value { return Int{V: n} })
	case 1:
		return proptest.Map(proptest.ByteStringBetween(0, maxLeafBytes), func(b []byte) Value { return Bytes{V: b} })
	default:
		return proptest.Map(proptest.Bool(), func(b bool) Value { return Bool(b) })
	}
}
