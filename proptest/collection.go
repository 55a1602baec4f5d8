package proptest

import (
	"math/bits"
	"slices"
)

// Pinned choices recorded for structural collection decisions.
const (
	ContinueChoice byte = 0
	StopChoice     byte = 255
)

// defaultListSpan is the extra room given to collections without an
// explicit upper bound.
const defaultListSpan = 20

// ListBetween draws a list whose length lies in [min, max].
//
// The length is not chosen upfront. Before each element a decision is taken:
// below min the list must grow (ContinueChoice is pinned), at max it must stop
// (StopChoice is pinned). In between a byte n is drawn and the list grows iff
// n*(p+q) < 256*p with p = max-min and q = floor(log2(p)), which skews results
// towards short lists.
func ListBetween[T any](g Fuzzer[T], min, max int) Fuzzer[[]T] {
	checkCollectionBounds("ListBetween", min, max)
	grow := growth(min, max)
	return func(s State) (State, []T, bool) {
		var out []T
		for {
			var more, ok bool
			s, more, ok = grow(s, len(out))
			if !ok {
				return nil, nil, false
			}
			if !more {
				return s, out, true
			}
			var v T
			s, v, ok = g(s)
			if !ok {
				return nil, nil, false
			}
			out = append(out, v)
		}
	}
}

// List draws a list of at most 20 elements.
func List[T any](g Fuzzer[T]) Fuzzer[[]T] {
	return ListBetween(g, 0, defaultListSpan)
}

// ListAtMost draws a list of at most max elements.
func ListAtMost[T any](g Fuzzer[T], max int) Fuzzer[[]T] {
	return ListBetween(g, 0, max)
}

// ListAtLeast draws a list of between min and min+20 elements.
func ListAtLeast[T any](g Fuzzer[T], min int) Fuzzer[[]T] {
	return ListBetween(g, min, min+defaultListSpan)
}

// SetBetween draws between min and max pairwise distinct elements, in the
// order they were first drawn. Each element is drawn until it differs from
// the ones already present; running out of retries is a hard failure, so g
// must be able to produce at least max distinct values.
func SetBetween[T comparable](g Fuzzer[T], min, max int) Fuzzer[[]T] {
	checkCollectionBounds("SetBetween", min, max)
	grow := growth(min, max)
	return func(s State) (State, []T, bool) {
		var out []T
		seen := make(map[T]struct{})
		retries := envOf(s).retries
		for {
			var more, ok bool
			s, more, ok = grow(s, len(out))
			if !ok {
				return nil, nil, false
			}
			if !more {
				return s, out, true
			}
			var v T
			s, v, ok = fresh(s, g, seen, retries)
			if !ok {
				return nil, nil, false
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
}

func fresh[T comparable](s State, g Fuzzer[T], seen map[T]struct{}, retries int) (State, T, bool) {
	var zero T
	for attempt := 0; attempt < retries; attempt++ {
		next, v, ok := g(s)
		if !ok {
			return nil, zero, false
		}
		s = next
		if _, dup := seen[v]; !dup {
			return s, v, true
		}
	}
	panic(failf("SetBetween", "no fresh element after %d attempts with %d distinct elements drawn", retries, len(seen)))
}

// Set draws a set of at most 20 elements.
func Set[T comparable](g Fuzzer[T]) Fuzzer[[]T] {
	return SetBetween(g, 0, defaultListSpan)
}

// SetAtMost draws a set of at most max elements.
func SetAtMost[T comparable](g Fuzzer[T], max int) Fuzzer[[]T] {
	return SetBetween(g, 0, max)
}

// SetAtLeast draws a set of between min and min+20 elements.
func SetAtLeast[T comparable](g Fuzzer[T], min int) Fuzzer[[]T] {
	return SetBetween(g, min, min+defaultListSpan)
}

func checkCollectionBounds(combinator string, min, max int) {
	if min < 0 || min > max {
		panic(failf(combinator, "invalid length bounds [%d, %d]", min, max))
	}
}

// growth returns the per-element decision of ListBetween and SetBetween.
func growth(min, max int) func(State, int) (State, bool, bool) {
	p := uint64(max - min)
	var q uint64
	if p > 0 {
		q = uint64(bits.Len64(p) - 1)
	}
	// 256*p as a 128-bit value
	limHi, limLo := p>>56, p<<8
	return func(s State, length int) (State, bool, bool) {
		switch {
		case length < min:
			s, _, ok := pin(s, ContinueChoice)
			return s, true, ok
		case length >= max:
			s, _, ok := pin(s, StopChoice)
			return s, false, ok
		}
		s, n, ok := draw(s)
		if !ok {
			return nil, false, false
		}
		hi, lo := bits.Mul64(uint64(n), p+q)
		return s, hi < limHi || (hi == limHi && lo < limLo), true
	}
}

// OneOf picks one of xs with IntBetween(0, len(xs)-1). An empty xs is a hard
// failure.
func OneOf[T any](xs []T) Fuzzer[T] {
	if len(xs) == 0 {
		panic(failf("OneOf", "called with no values"))
	}
	xs = slices.Clone(xs)
	return Map(IntBetween(0, len(xs)-1), func(i int) T { return xs[i] })
}

// Sublist draws a threshold byte, then one byte per element of xs, keeping
// the element iff its byte is below the threshold. Order is preserved.
func Sublist[T any](xs []T) Fuzzer[[]T] {
	xs = slices.Clone(xs)
	return func(s State) (State, []T, bool) {
		s, threshold, ok := draw(s)
		if !ok {
			return nil, nil, false
		}
		out := make([]T, 0, len(xs))
		for _, x := range xs {
			var b byte
			s, b, ok = draw(s)
			if !ok {
				return nil, nil, false
			}
			if b < threshold {
				out = append(out, x)
			}
		}
		return s, out, true
	}
}

// Subset is Sublist over the distinct values of xs, first occurrence first.
func Subset[T comparable](xs []T) Fuzzer[[]T] {
	seen := make(map[T]struct{}, len(xs))
	distinct := make([]T, 0, len(xs))
	for _, x := range xs {
		if _, dup := seen[x]; dup {
			continue
		}
		seen[x] = struct{}{}
		distinct = append(distinct, x)
	}
	return Sublist(distinct)
}
