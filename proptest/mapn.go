package proptest

// Map2 runs fa then fb, threading the state left to right, and combines
// their values with combine.
func Map2[A, B, R any](fa Fuzzer[A], fb Fuzzer[B], combine func(A, B) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b), true
	}
}

// Map3 is Map2 over 3 fuzzers, evaluated left to right.
func Map3[A, B, C, R any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], combine func(A, B, C) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		s, c, ok := fc(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b, c), true
	}
}

// Map4 is Map2 over 4 fuzzers, evaluated left to right.
func Map4[A, B, C, D, R any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], combine func(A, B, C, D) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		s, c, ok := fc(s)
		if !ok {
			return nil, zero, false
		}
		s, d, ok := fd(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b, c, d), true
	}
}

// Map5 is Map2 over 5 fuzzers, evaluated left to right.
func Map5[A, B, C, D, E, R any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], combine func(A, B, C, D, E) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		s, c, ok := fc(s)
		if !ok {
			return nil, zero, false
		}
		s, d, ok := fd(s)
		if !ok {
			return nil, zero, false
		}
		s, e, ok := fe(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b, c, d, e), true
	}
}

// Map6 is Map2 over 6 fuzzers, evaluated left to right.
func Map6[A, B, C, D, E, F, R any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F], combine func(A, B, C, D, E, F) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		s, c, ok := fc(s)
		if !ok {
			return nil, zero, false
		}
		s, d, ok := fd(s)
		if !ok {
			return nil, zero, false
		}
		s, e, ok := fe(s)
		if !ok {
			return nil, zero, false
		}
		s, f, ok := ff(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b, c, d, e, f), true
	}
}

// Map7 is Map2 over 7 fuzzers, evaluated left to right.
func Map7[A, B, C, D, E, F, G, R any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F], fg Fuzzer[G], combine func(A, B, C, D, E, F, G) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		s, c, ok := fc(s)
		if !ok {
			return nil, zero, false
		}
		s, d, ok := fd(s)
		if !ok {
			return nil, zero, false
		}
		s, e, ok := fe(s)
		if !ok {
			return nil, zero, false
		}
		s, f, ok := ff(s)
		if !ok {
			return nil, zero, false
		}
		s, g, ok := fg(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b, c, d, e, f, g), true
	}
}

// Map8 is Map2 over 8 fuzzers, evaluated left to right.
func Map8[A, B, C, D, E, F, G, H, R any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F], fg Fuzzer[G], fh Fuzzer[H], combine func(A, B, C, D, E, F, G, H) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		s, c, ok := fc(s)
		if !ok {
			return nil, zero, false
		}
		s, d, ok := fd(s)
		if !ok {
			return nil, zero, false
		}
		s, e, ok := fe(s)
		if !ok {
			return nil, zero, false
		}
		s, f, ok := ff(s)
		if !ok {
			return nil, zero, false
		}
		s, g, ok := fg(s)
		if !ok {
			return nil, zero, false
		}
		s, h, ok := fh(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b, c, d, e, f, g, h), true
	}
}

// Map9 is Map2 over 9 fuzzers, evaluated left to right.
func Map9[A, B, C, D, E, F, G, H, I, R any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F], fg Fuzzer[G], fh Fuzzer[H], fi Fuzzer[I], combine func(A, B, C, D, E, F, G, H, I) R) Fuzzer[R] {
	return func(s State) (State, R, bool) {
		var zero R
		s, a, ok := fa(s)
		if !ok {
			return nil, zero, false
		}
		s, b, ok := fb(s)
		if !ok {
			return nil, zero, false
		}
		s, c, ok := fc(s)
		if !ok {
			return nil, zero, false
		}
		s, d, ok := fd(s)
		if !ok {
			return nil, zero, false
		}
		s, e, ok := fe(s)
		if !ok {
			return nil, zero, false
		}
		s, f, ok := ff(s)
		if !ok {
			return nil, zero, false
		}
		s, g, ok := fg(s)
		if !ok {
			return nil, zero, false
		}
		s, h, ok := fh(s)
		if !ok {
			return nil, zero, false
		}
		s, i, ok := fi(s)
		if !ok {
			return nil, zero, false
		}
		return s, combine(a, b, c, d, e, f, g, h, i), true
	}
}
