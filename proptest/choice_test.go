package proptest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constants(n int) []Fuzzer[int] {
	fs := make([]Fuzzer[int], n)
	for i := range fs {
		fs[i] = Constant(i)
	}
	return fs
}

func TestEither(t *testing.T) {
	g := Either(Constant("left"), Constant("right"))

	v, ok := Replay(g, []byte{0})
	require.True(t, ok)
	assert.Equal(t, "left", v)

	v, ok = Replay(g, []byte{128})
	require.True(t, ok)
	assert.Equal(t, "right", v)

	_, ok = Replay(g, nil)
	assert.False(t, ok)
}

func TestOneOfFuzzers_Partition(t *testing.T) {
	g := OneOfFuzzers(constants(3)...)
	tests := []struct {
		b    byte
		want int
	}{
		{0, 0},
		{85, 0},
		{86, 1},
		{170, 1},
		{171, 2},
		{255, 2},
	}
	for _, tt := range tests {
		v, ok := Replay(g, []byte{tt.b})
		require.True(t, ok)
		assert.Equal(t, tt.want, v, "byte %d", tt.b)
	}
}

func TestOneOfFuzzers_LastByteSelectsLastBranch(t *testing.T) {
	for n := 2; n <= 256; n++ {
		v, ok := Replay(OneOfFuzzers(constants(n)...), []byte{255})
		require.True(t, ok)
		assert.Equal(t, n-1, v, "%d branches", n)
	}
}

func TestOneOfFuzzers_BranchWidths(t *testing.T) {
	for n := 2; n <= 9; n++ {
		g := OneOfFuzzers(constants(n)...)
		widths := make([]int, n)
		for b := 0; b < 256; b++ {
			v, ok := Replay(g, []byte{byte(b)})
			require.True(t, ok)
			widths[v]++
		}
		lo, hi := widths[0], widths[0]
		for _, w := range widths {
			lo, hi = min(lo, w), max(hi, w)
		}
		assert.LessOrEqual(t, hi-lo, 1, "%d branches: %v", n, widths)
	}
}

func TestOneOfFuzzers_Invalid(t *testing.T) {
	requireFailure(t, "OneOfFuzzers", func() { OneOfFuzzers[int]() })
	requireFailure(t, "OneOfFuzzers", func() { OneOfFuzzers(constants(257)...) })
}

func TestEitherN(t *testing.T) {
	c := constants(9)
	tests := []struct {
		name string
		g    Fuzzer[int]
		last int
	}{
		{"Either3", Either3(c[0], c[1], c[2]), 2},
		{"Either4", Either4(c[0], c[1], c[2], c[3]), 3},
		{"Either5", Either5(c[0], c[1], c[2], c[3], c[4]), 4},
		{"Either6", Either6(c[0], c[1], c[2], c[3], c[4], c[5]), 5},
		{"Either7", Either7(c[0], c[1], c[2], c[3], c[4], c[5], c[6]), 6},
		{"Either8", Either8(c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7]), 7},
		{"Either9", Either9(c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7], c[8]), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, ok := Replay(tt.g, []byte{0})
			require.True(t, ok)
			assert.Equal(t, 0, first)

			last, ok := Replay(tt.g, []byte{255})
			require.True(t, ok)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestFrequency(t *testing.T) {
	g := Frequency(
		Weighted[string]{Weight: 0, Fuzzer: Constant("never")},
		Weighted[string]{Weight: 3, Fuzzer: Constant("often")},
		Weighted[string]{Weight: 1, Fuzzer: Constant("rarely")},
	)
	counts := make(map[string]int)
	forSeeds(800, func(seed []byte) {
		v, _ := mustGenerate(t, g, seed)
		counts[v]++
	})
	assert.Zero(t, counts["never"])
	assert.InDelta(t, 600, counts["often"], 80)
	assert.InDelta(t, 200, counts["rarely"], 80)

	requireFailure(t, "Frequency", func() { Frequency(Weighted[int]{Weight: 0, Fuzzer: Constant(1)}) })
	requireFailure(t, "Frequency", func() { Frequency(Weighted[int]{Weight: -1, Fuzzer: Constant(1)}) })
}

func TestOptional(t *testing.T) {
	v, ok := Replay(Optional(Int()), []byte{0})
	require.True(t, ok)
	assert.Nil(t, v)

	v, ok = Replay(Optional(Int()), []byte{200, 5})
	require.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, 5, *v)
}

func TestSuchThat(t *testing.T) {
	even := SuchThat(IntBetween(0, 100), func(n int) bool { return n%2 == 0 })
	forSeeds(100, func(seed []byte) {
		v, choices := mustGenerate(t, even, seed)
		assert.Zero(t, v%2)

		again, ok := Replay(even, choices)
		require.True(t, ok)
		assert.Equal(t, v, again)
	})
}

func TestSuchThat_BudgetExhausted(t *testing.T) {
	f := requireFailure(t, "SuchThat", func() {
		Generate(SuchThat(Int(), func(int) bool { return false }), []byte("never"))
	})
	assert.Contains(t, f.Reason, "100 attempts")

	calls := 0
	counting := Map(Byte(), func(b byte) byte { calls++; return b })
	requireFailure(t, "SuchThat", func() {
		Generate(SuchThat(counting, func(byte) bool { return false }), []byte("never"), WithRetries(3))
	})
	assert.Equal(t, 3, calls)
}

func TestSuchThat_ReplayedExhausts(t *testing.T) {
	g := SuchThat(Byte(), func(b byte) bool { return b > 100 })
	_, ok := Replay(g, []byte{1, 2, 3})
	assert.False(t, ok)
}
