package proptest

// Either picks left or right with a single Bool draw; true selects left.
func Either[T any](left, right Fuzzer[T]) Fuzzer[T] {
	return AndThen(Bool(), func(b bool) Fuzzer[T] {
		if b {
			return left
		}
		return right
	})
}

// OneOfFuzzers draws one byte n and runs fs[n*len(fs)/256]. The branches
// cover contiguous ranges of [0, 256) whose widths differ by at most one, and
// the byte 255 always selects the last branch. Between 1 and 256 fuzzers are
// accepted.
func OneOfFuzzers[T any](fs ...Fuzzer[T]) Fuzzer[T] {
	switch {
	case len(fs) == 0:
		panic(failf("OneOfFuzzers", "called with no fuzzers"))
	case len(fs) == 1:
		return fs[0]
	case len(fs) > 256:
		panic(failf("OneOfFuzzers", "%d fuzzers cannot be told apart by one byte", len(fs)))
	}
	branches := append([]Fuzzer[T](nil), fs...)
	return func(s State) (State, T, bool) {
		s, n, ok := draw(s)
		if !ok {
			var zero T
			return nil, zero, false
		}
		return branches[int(n)*len(branches)/256](s)
	}
}

// Either3 is OneOfFuzzers over three fuzzers.
func Either3[T any](a, b, c Fuzzer[T]) Fuzzer[T] {
	return OneOfFuzzers(a, b, c)
}

// Either4 is OneOfFuzzers over four fuzzers.
func Either4[T any](a, b, c, d Fuzzer[T]) Fuzzer[T] {
	return OneOfFuzzers(a, b, c, d)
}

// Either5 is OneOfFuzzers over five fuzzers.
func Either5[T any](a, b, c, d, e Fuzzer[T]) Fuzzer[T] {
	return OneOfFuzzers(a, b, c, d, e)
}

// Either6 is OneOfFuzzers over six fuzzers.
func Either6[T any](a, b, c, d, e, f Fuzzer[T]) Fuzzer[T] {
	return OneOfFuzzers(a, b, c, d, e, f)
}

// Either7 is OneOfFuzzers over seven fuzzers.
func Either7[T any](a, b, c, d, e, f, g Fuzzer[T]) Fuzzer[T] {
	return OneOfFuzzers(a, b, c, d, e, f, g)
}

// Either8 is OneOfFuzzers over eight fuzzers.
func Either8[T any](a, b, c, d, e, f, g, h Fuzzer[T]) Fuzzer[T] {
	return OneOfFuzzers(a, b, c, d, e, f, g, h)
}

// Either9 is OneOfFuzzers over nine fuzzers.
func Either9[T any](a, b, c, d, e, f, g, h, i Fuzzer[T]) Fuzzer[T] {
	return OneOfFuzzers(a, b, c, d, e, f, g, h, i)
}

// Weighted pairs a fuzzer with its relative weight for Frequency.
type Weighted[T any] struct {
	Weight int
	Fuzzer Fuzzer[T]
}

// Frequency picks a branch with probability proportional to its weight,
// using one IntBetween(0, total-1) draw. Zero-weight branches are never
// taken.
func Frequency[T any](choices ...Weighted[T]) Fuzzer[T] {
	total := 0
	for _, c := range choices {
		if c.Weight < 0 {
			panic(failf("Frequency", "negative weight %d", c.Weight))
		}
		total += c.Weight
	}
	if total == 0 {
		panic(failf("Frequency", "weights sum to zero"))
	}
	choices = append([]Weighted[T](nil), choices...)
	return AndThen(IntBetween(0, total-1), func(n int) Fuzzer[T] {
		for _, c := range choices {
			if n < c.Weight {
				return c.Fuzzer
			}
			n -= c.Weight
		}
		return choices[len(choices)-1].Fuzzer
	})
}

// Optional produces nil or a pointer to a value of g, chosen with Either.
func Optional[T any](g Fuzzer[T]) Fuzzer[*T] {
	return Either(Constant[*T](nil), Map(g, func(v T) *T { return &v }))
}
