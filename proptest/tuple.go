package proptest

// Tuple2 holds the values produced by Zip2.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 holds the values produced by Zip3.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple4 holds the values produced by Zip4.
type Tuple4[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// Tuple5 holds the values produced by Zip5.
type Tuple5[A, B, C, D, E any] struct {
	First  A
	Second B
	Third  C
	Fourth D
	Fifth  E
}

// Tuple6 holds the values produced by Zip6.
type Tuple6[A, B, C, D, E, F any] struct {
	First  A
	Second B
	Third  C
	Fourth D
	Fifth  E
	Sixth  F
}

// Tuple7 holds the values produced by Zip7.
type Tuple7[A, B, C, D, E, F, G any] struct {
	First   A
	Second  B
	Third   C
	Fourth  D
	Fifth   E
	Sixth   F
	Seventh G
}

// Tuple8 holds the values produced by Zip8.
type Tuple8[A, B, C, D, E, F, G, H any] struct {
	First   A
	Second  B
	Third   C
	Fourth  D
	Fifth   E
	Sixth   F
	Seventh G
	Eighth  H
}

// Tuple9 holds the values produced by Zip9.
type Tuple9[A, B, C, D, E, F, G, H, I any] struct {
	First   A
	Second  B
	Third   C
	Fourth  D
	Fifth   E
	Sixth   F
	Seventh G
	Eighth  H
	Ninth   I
}

// MakeTuple2 builds a Tuple2; Zip2 is Map2 with it.
func MakeTuple2[A, B any](a A, b B) Tuple2[A, B] {
	return Tuple2[A, B]{a, b}
}

// Zip2 pairs up the values of 2 fuzzers. It draws exactly like Map2.
func Zip2[A, B any](fa Fuzzer[A], fb Fuzzer[B]) Fuzzer[Tuple2[A, B]] {
	return Map2(fa, fb, MakeTuple2[A, B])
}

// MakeTuple3 builds a Tuple3; Zip3 is Map3 with it.
func MakeTuple3[A, B, C any](a A, b B, c C) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{a, b, c}
}

// Zip3 pairs up the values of 3 fuzzers. It draws exactly like Map3.
func Zip3[A, B, C any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C]) Fuzzer[Tuple3[A, B, C]] {
	return Map3(fa, fb, fc, MakeTuple3[A, B, C])
}

// MakeTuple4 builds a Tuple4; Zip4 is Map4 with it.
func MakeTuple4[A, B, C, D any](a A, b B, c C, d D) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{a, b, c, d}
}

// Zip4 pairs up the values of 4 fuzzers. It draws exactly like Map4.
func Zip4[A, B, C, D any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D]) Fuzzer[Tuple4[A, B, C, D]] {
	return Map4(fa, fb, fc, fd, MakeTuple4[A, B, C, D])
}

// MakeTuple5 builds a Tuple5; Zip5 is Map5 with it.
func MakeTuple5[A, B, C, D, E any](a A, b B, c C, d D, e E) Tuple5[A, B, C, D, E] {
	return Tuple5[A, B, C, D, E]{a, b, c, d, e}
}

// Zip5 pairs up the values of 5 fuzzers. It draws exactly like Map5.
func Zip5[A, B, C, D, E any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E]) Fuzzer[Tuple5[A, B, C, D, E]] {
	return Map5(fa, fb, fc, fd, fe, MakeTuple5[A, B, C, D, E])
}

// MakeTuple6 builds a Tuple6; Zip6 is Map6 with it.
func MakeTuple6[A, B, C, D, E, F any](a A, b B, c C, d D, e E, f F) Tuple6[A, B, C, D, E, F] {
	return Tuple6[A, B, C, D, E, F]{a, b, c, d, e, f}
}

// Zip6 pairs up the values of 6 fuzzers. It draws exactly like Map6.
func Zip6[A, B, C, D, E, F any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F]) Fuzzer[Tuple6[A, B, C, D, E, F]] {
	return Map6(fa, fb, fc, fd, fe, ff, MakeTuple6[A, B, C, D, E, F])
}

// MakeTuple7 builds a Tuple7; Zip7 is Map7 with it.
func MakeTuple7[A, B, C, D, E, F, G any](a A, b B, c C, d D, e E, f F, g G) Tuple7[A, B, C, D, E, F, G] {
	return Tuple7[A, B, C, D, E, F, G]{a, b, c, d, e, f, g}
}

// Zip7 pairs up the values of 7 fuzzers. It draws exactly like Map7.
func Zip7[A, B, C, D, E, F, G any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F], fg Fuzzer[G]) Fuzzer[Tuple7[A, B, C, D, E, F, G]] {
	return Map7(fa, fb, fc, fd, fe, ff, fg, MakeTuple7[A, B, C, D, E, F, G])
}

// MakeTuple8 builds a Tuple8; Zip8 is Map8 with it.
func MakeTuple8[A, B, C, D, E, F, G, H any](a A, b B, c C, d D, e E, f F, g G, h H) Tuple8[A, B, C, D, E, F, G, H] {
	return Tuple8[A, B, C, D, E, F, G, H]{a, b, c, d, e, f, g, h}
}

// Zip8 pairs up the values of 8 fuzzers. It draws exactly like Map8.
func Zip8[A, B, C, D, E, F, G, H any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F], fg Fuzzer[G], fh Fuzzer[H]) Fuzzer[Tuple8[A, B, C, D, E, F, G, H]] {
	return Map8(fa, fb, fc, fd, fe, ff, fg, fh, MakeTuple8[A, B, C, D, E, F, G, H])
}

// MakeTuple9 builds a Tuple9; Zip9 is Map9 with it.
func MakeTuple9[A, B, C, D, E, F, G, H, I any](a A, b B, c C, d D, e E, f F, g G, h H, i I) Tuple9[A, B, C, D, E, F, G, H, I] {
	return Tuple9[A, B, C, D, E, F, G, H, I]{a, b, c, d, e, f, g, h, i}
}

// Zip9 pairs up the values of 9 fuzzers. It draws exactly like Map9.
func Zip9[A, B, C, D, E, F, G, H, I any](fa Fuzzer[A], fb Fuzzer[B], fc Fuzzer[C], fd Fuzzer[D], fe Fuzzer[E], ff Fuzzer[F], fg Fuzzer[G], fh Fuzzer[H], fi Fuzzer[I]) Fuzzer[Tuple9[A, B, C, D, E, F, G, H, I]] {
	return Map9(fa, fb, fc, fd, fe, ff, fg, fh, fi, MakeTuple9[A, B, C, D, E, F, G, H, I])
}
