// Package proptest provides replayable property-based value generation.
//
// A Fuzzer is a pure function from a State to a new State and a value. A
// fresh (Seeded) state draws bytes from a one-way mixing function and records
// every byte it hands out; a Replayed state reads such a record back in the
// same order. Running a fuzzer against the record of an earlier run therefore
// reproduces the earlier value bit for bit, and a truncated or edited record
// either replays the same way or reports exhaustion.
//
// Basic usage:
//
//	pairs := proptest.Zip2(proptest.Int(), proptest.ByteStringBetween(0, 8))
//	final, v, _ := pairs(proptest.NewSeeded([]byte("seed")))
//
//	// later, from the recorded choices only
//	_, again, ok := pairs(proptest.NewReplayed(final.Choices()))
//	// ok == true and again == v
package proptest

// Fuzzer generates values of type T.
//
// The boolean result is false when the state ran out of recorded choices
// (or a pinned choice did not match); the returned state is nil in that case.
// Fuzzers never mutate the state they are given.
type Fuzzer[T any] func(State) (State, T, bool)

// DefaultRetries bounds SuchThat and set deduplication unless a state is
// built WithRetries.
const DefaultRetries = 100

// Constant returns a fuzzer that always produces v without drawing.
func Constant[T any](v T) Fuzzer[T] {
	return func(s State) (State, T, bool) {
		return s, v, true
	}
}

// Fail always exhausts.
func Fail[T any]() Fuzzer[T] {
	return func(State) (State, T, bool) {
		var zero T
		return nil, zero, false
	}
}

// Map transforms the values produced by g.
func Map[A, B any](g Fuzzer[A], f func(A) B) Fuzzer[B] {
	return func(s State) (State, B, bool) {
		var zero B
		s, a, ok := g(s)
		if !ok {
			return nil, zero, false
		}
		return s, f(a), true
	}
}

// AndThen runs g and feeds its value to f to pick the next fuzzer, which runs
// against the state g left behind.
func AndThen[A, B any](g Fuzzer[A], f func(A) Fuzzer[B]) Fuzzer[B] {
	return func(s State) (State, B, bool) {
		var zero B
		s, a, ok := g(s)
		if !ok {
			return nil, zero, false
		}
		return f(a)(s)
	}
}

// Sequence runs every fuzzer in order and collects the values.
func Sequence[T any](gs []Fuzzer[T]) Fuzzer[[]T] {
	return func(s State) (State, []T, bool) {
		out := make([]T, 0, len(gs))
		for _, g := range gs {
			var v T
			var ok bool
			s, v, ok = g(s)
			if !ok {
				return nil, nil, false
			}
			out = append(out, v)
		}
		return s, out, true
	}
}
