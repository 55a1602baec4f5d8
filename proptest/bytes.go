package proptest

// blockSize is the number of bytes produced by one ByteString draw.
const blockSize = 32

// ByteString draws two bytes and expands them into a 32-byte block through
// the state's mixer. Two zero bytes yield 32 zero bytes instead.
func ByteString() Fuzzer[[]byte] {
	return func(s State) (State, []byte, bool) {
		s, b0, ok := draw(s)
		if !ok {
			return nil, nil, false
		}
		s, b1, ok := draw(s)
		if !ok {
			return nil, nil, false
		}
		if b0 == 0 && b1 == 0 {
			return s, make([]byte, blockSize), true
		}
		block := envOf(s).mix([]byte{b0, b1})
		return s, block[:], true
	}
}

// ByteStringFixed produces exactly n bytes from ceil(n/32) ByteString draws.
func ByteStringFixed(n int) Fuzzer[[]byte] {
	if n < 0 {
		panic(failf("ByteStringFixed", "negative length %d", n))
	}
	block := ByteString()
	return func(s State) (State, []byte, bool) {
		out := make([]byte, 0, n)
		for len(out) < n {
			var b []byte
			var ok bool
			s, b, ok = block(s)
			if !ok {
				return nil, nil, false
			}
			if rest := n - len(out); rest < len(b) {
				b = b[:rest]
			}
			out = append(out, b...)
		}
		return s, out, true
	}
}

// ByteStringBetween draws a length with IntBetween(min, max), then that many
// bytes.
func ByteStringBetween(min, max int) Fuzzer[[]byte] {
	if min < 0 || max < 0 {
		panic(failf("ByteStringBetween", "negative bounds [%d, %d]", min, max))
	}
	return AndThen(IntBetween(min, max), ByteStringFixed)
}

// ByteStringAtMost draws between 0 and max bytes.
func ByteStringAtMost(max int) Fuzzer[[]byte] {
	return ByteStringBetween(0, max)
}

// ByteStringAtLeast draws at least min bytes, using the IntAtLeast spread for
// the length.
func ByteStringAtLeast(min int) Fuzzer[[]byte] {
	if min < 0 {
		panic(failf("ByteStringAtLeast", "negative bound %d", min))
	}
	return AndThen(IntAtLeast(min), ByteStringFixed)
}
