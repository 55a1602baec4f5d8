package proptest

import (
	"math"
	"math/bits"
)

// entropyCeiling is the largest value a single draw can produce.
const entropyCeiling = 255

// Byte draws a raw byte in [0, 255].
func Byte() Fuzzer[byte] {
	return draw
}

// Bool draws one byte; values below 128 are true.
func Bool() Fuzzer[bool] {
	return Map(Rand(), func(b byte) bool { return b < 128 })
}

// IntBetween draws an integer uniformly from [min, max], both inclusive.
// Arguments are swapped when min > max; min == max draws nothing.
//
// With range = max-min+1 and threshold the largest power of two not above
// range, one byte n is drawn first. If n*range <= 256*threshold, exactly
// log2(threshold) bits are drawn and added to min. Otherwise the result is
// min + threshold + IntBetween(0, range-threshold-1).
func IntBetween(min, max int) Fuzzer[int] {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return Constant(min)
	}
	// 0 stands for 2^64 when the bounds span every int.
	span := uint64(max) - uint64(min) + 1
	return func(s State) (State, int, bool) {
		s, n, ok := uniform(s, span)
		if !ok {
			return nil, 0, false
		}
		return s, min + int(n), true
	}
}

// uniform draws from [0, span), where span 0 means 2^64. The recursion of the
// rejection branch is unrolled into the loop.
func uniform(s State, span uint64) (State, uint64, bool) {
	var offset uint64
	for span != 1 {
		k := 64
		if span != 0 {
			k = bits.Len64(span) - 1
		}

		var n byte
		var ok bool
		s, n, ok = draw(s)
		if !ok {
			return nil, 0, false
		}

		if k == 64 || accepts(n, span, k) {
			var v uint64
			s, v, ok = drawBits(s, k)
			if !ok {
				return nil, 0, false
			}
			return s, offset + v, true
		}

		offset += 1 << k
		span -= 1 << k
	}
	return s, offset, true
}

// accepts reports whether n*span <= 256*2^k using 128-bit products.
func accepts(n byte, span uint64, k int) bool {
	hi, lo := bits.Mul64(uint64(n), span)
	var limHi, limLo uint64
	if k+8 >= 64 {
		limHi = 1 << (k + 8 - 64)
	} else {
		limLo = 1 << (k + 8)
	}
	return hi < limHi || (hi == limHi && lo <= limLo)
}

// drawBits draws exactly k bits, most significant first. Whole bytes come
// first; a trailing partial byte is reduced modulo 2^remaining.
func drawBits(s State, k int) (State, uint64, bool) {
	var v uint64
	for k > 0 {
		var b byte
		var ok bool
		s, b, ok = draw(s)
		if !ok {
			return nil, 0, false
		}
		if k >= 8 {
			v = v<<8 | uint64(b)
			k -= 8
			continue
		}
		v = v<<k | uint64(b)%(1<<k)
		k = 0
	}
	return s, v, true
}

// IntAtLeast draws from [min, min+spread], where the spread is five times
// |min| once |min| exceeds a single byte of entropy and 255 otherwise.
// The upper bound saturates at math.MaxInt.
func IntAtLeast(min int) Fuzzer[int] {
	spread := spreadOf(min)
	max := math.MaxInt
	if min <= math.MaxInt-spread {
		max = min + spread
	}
	return IntBetween(min, max)
}

// IntAtMost is the mirror image of IntAtLeast.
func IntAtMost(max int) Fuzzer[int] {
	spread := spreadOf(max)
	min := math.MinInt
	if max >= math.MinInt+spread {
		min = max - spread
	}
	return IntBetween(min, max)
}

func spreadOf(bound int) int {
	mag := uint64(bound)
	if bound < 0 {
		mag = -mag
	}
	if mag <= entropyCeiling {
		return entropyCeiling
	}
	if mag > math.MaxInt/5 {
		return math.MaxInt
	}
	return int(5 * mag)
}

// Int draws an integer skewed towards small magnitudes:
//
//	b0 <  128         b0
//	128 <= b0 < 132   0
//	132 <= b0 < 192   -b1
//	192 <= b0         (b0-192)*256 + b1
//
// Results always lie in [-255, 16383].
func Int() Fuzzer[int] {
	return func(s State) (State, int, bool) {
		s, b0, ok := draw(s)
		if !ok {
			return nil, 0, false
		}
		switch {
		case b0 < 128:
			return s, int(b0), true
		case b0 < 132:
			return s, 0, true
		}
		s, b1, ok := draw(s)
		if !ok {
			return nil, 0, false
		}
		if b0 < 192 {
			return s, -int(b1), true
		}
		return s, int(b0-192)<<8 | int(b1), true
	}
}
