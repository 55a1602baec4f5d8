package proptest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntBetween_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
	}{
		{"unit", 0, 1},
		{"small", -5, 5},
		{"byte", 0, 255},
		{"odd span", 3, 1003},
		{"swapped", 10, -10},
		{"wide", -1 << 40, 1 << 40},
		{"everything", math.MinInt, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := min(tt.min, tt.max), max(tt.min, tt.max)
			g := IntBetween(tt.min, tt.max)
			forSeeds(300, func(seed []byte) {
				v, _ := mustGenerate(t, g, seed)
				assert.GreaterOrEqual(t, v, lo)
				assert.LessOrEqual(t, v, hi)
			})
		})
	}
}

func TestIntBetween_SingletonDrawsNothing(t *testing.T) {
	final, v, ok := IntBetween(3, 3)(NewSeeded([]byte("s")))
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Empty(t, final.Choices())

	v, ok = Replay(IntBetween(-4, -4), nil)
	require.True(t, ok)
	assert.Equal(t, -4, v)
}

func TestIntBetween_Replayed(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		choices  []byte
		want     int
		consumed int
	}{
		// range 3: accept iff n*3 <= 512, then one bit
		{"accepted low bit 0", 0, 2, []byte{0, 0}, 0, 2},
		{"accepted low bit 1", 0, 2, []byte{0, 1}, 1, 2},
		{"accepted boundary", 0, 2, []byte{170, 3}, 1, 2},
		{"rejected", 0, 2, []byte{171, 9}, 2, 1},
		{"offset", 10, 12, []byte{255}, 12, 1},
		// power of two ranges always accept
		{"byte", 0, 255, []byte{0, 200}, 200, 2},
		{"two bytes", 0, 65535, []byte{9, 1, 2}, 258, 3},
		{"partial byte", 0, 15, []byte{77, 0xff}, 15, 2},
		{"everything", math.MinInt, math.MaxInt, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8}, math.MinInt + 0x0102030405060708, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, v, ok := IntBetween(tt.min, tt.max)(NewReplayed(tt.choices))
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
			assert.Len(t, final.Choices(), tt.consumed)
		})
	}
}

func TestIntBetween_ReplayedExhausted(t *testing.T) {
	_, ok := Replay(IntBetween(0, 2), []byte{0})
	assert.False(t, ok)
	_, ok = Replay(IntBetween(0, 2), nil)
	assert.False(t, ok)
}

func TestIntBetween_Uniform(t *testing.T) {
	counts := make([]int, 2)
	forSeeds(2000, func(seed []byte) {
		v, _ := mustGenerate(t, IntBetween(0, 1), seed)
		counts[v]++
	})
	assert.InDelta(t, 1000, counts[0], 120)
	assert.InDelta(t, 1000, counts[1], 120)
}

func TestIntBetween_EveryValueReached(t *testing.T) {
	seen := make(map[int]bool)
	forSeeds(500, func(seed []byte) {
		v, _ := mustGenerate(t, IntBetween(-3, 6), seed)
		seen[v] = true
	})
	assert.Len(t, seen, 10)
}

func TestIntAtLeastAtMost(t *testing.T) {
	forSeeds(200, func(seed []byte) {
		v, _ := mustGenerate(t, IntAtLeast(10), seed)
		assert.GreaterOrEqual(t, v, 10)
		assert.LessOrEqual(t, v, 10+255)

		v, _ = mustGenerate(t, IntAtLeast(1000), seed)
		assert.GreaterOrEqual(t, v, 1000)
		assert.LessOrEqual(t, v, 6000)

		v, _ = mustGenerate(t, IntAtMost(-1000), seed)
		assert.GreaterOrEqual(t, v, -6000)
		assert.LessOrEqual(t, v, -1000)

		v, _ = mustGenerate(t, IntAtLeast(math.MaxInt-3), seed)
		assert.GreaterOrEqual(t, v, math.MaxInt-3)

		v, _ = mustGenerate(t, IntAtMost(math.MinInt+3), seed)
		assert.LessOrEqual(t, v, math.MinInt+3)
	})
}

func TestInt_Replayed(t *testing.T) {
	tests := []struct {
		choices []byte
		want    int
	}{
		{[]byte{5}, 5},
		{[]byte{127}, 127},
		{[]byte{128}, 0},
		{[]byte{131}, 0},
		{[]byte{132, 7}, -7},
		{[]byte{191, 255}, -255},
		{[]byte{192, 3}, 3},
		{[]byte{193, 1}, 257},
		{[]byte{255, 255}, 16383},
	}
	for _, tt := range tests {
		v, ok := Replay(Int(), tt.choices)
		require.True(t, ok, "%v", tt.choices)
		assert.Equal(t, tt.want, v, "%v", tt.choices)
	}

	_, ok := Replay(Int(), []byte{200})
	assert.False(t, ok)
}

func TestInt_Distribution(t *testing.T) {
	const n = 4000
	var small, zero, negative, large int
	forSeeds(n, func(seed []byte) {
		v, _ := mustGenerate(t, Int(), seed)
		require.GreaterOrEqual(t, v, -255)
		require.LessOrEqual(t, v, 16383)
		switch {
		case v > 0 && v < 128:
			small++
		case v == 0:
			zero++
		case v < 0:
			negative++
		case v >= 256:
			large++
		}
	})

	assert.InDelta(t, 0.496, float64(small)/n, 0.05)
	assert.InDelta(t, 0.02, float64(zero)/n, 0.02)
	assert.InDelta(t, 0.233, float64(negative)/n, 0.05)
	assert.InDelta(t, 0.246, float64(large)/n, 0.05)
}

func TestBool_Replayed(t *testing.T) {
	v, ok := Replay(Bool(), []byte{127})
	require.True(t, ok)
	assert.True(t, v)

	v, ok = Replay(Bool(), []byte{128})
	require.True(t, ok)
	assert.False(t, v)
}

func TestByte_Replayed(t *testing.T) {
	v, ok := Replay(Byte(), []byte{99})
	require.True(t, ok)
	assert.Equal(t, byte(99), v)
}
