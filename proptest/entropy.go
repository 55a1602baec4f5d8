package proptest

// Rand draws one byte from the entropy source. Seeded states never run out;
// a Replayed state is exhausted once every recorded byte has been consumed.
func Rand() Fuzzer[byte] {
	return draw
}

// WithChoice pins a choice in the log. A Seeded state records v without
// advancing its seed. A Replayed state must read exactly v next, otherwise the
// fuzzer is exhausted. Collections use it for structural decisions so that an
// edited log cannot silently change them.
func WithChoice(v byte) Fuzzer[byte] {
	return func(s State) (State, byte, bool) {
		return pin(s, v)
	}
}

func draw(s State) (State, byte, bool) {
	switch s := s.(type) {
	case *Seeded:
		b := s.seed[0]
		mixed := s.env.mix(s.seed)
		return &Seeded{
			seed:    mixed[:],
			choices: s.choices.push(b),
			labels:  s.labels,
			env:     s.env,
		}, b, true
	case *Replayed:
		if s.cursor < 1 {
			return nil, 0, false
		}
		b := s.choices[len(s.choices)-s.cursor]
		return &Replayed{
			choices: s.choices,
			cursor:  s.cursor - 1,
			labels:  s.labels,
			env:     s.env,
		}, b, true
	default:
		panic(unknownState(s))
	}
}

func pin(s State, v byte) (State, byte, bool) {
	switch s := s.(type) {
	case *Seeded:
		return &Seeded{
			seed:    s.seed,
			choices: s.choices.push(v),
			labels:  s.labels,
			env:     s.env,
		}, v, true
	case *Replayed:
		next, b, ok := draw(s)
		if !ok || b != v {
			return nil, 0, false
		}
		return next, v, true
	default:
		panic(unknownState(s))
	}
}
