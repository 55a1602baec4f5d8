package proptest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// forSeeds runs fn on n fresh states with distinct seeds.
func forSeeds(n int, fn func(seed []byte)) {
	for i := 1; i <= n; i++ {
		fn(SeedBytes(int64(i)))
	}
}

// requireFailure asserts that fn panics with a *Failure of combinator.
func requireFailure(t *testing.T, combinator string, fn func()) *Failure {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	require.NotNil(t, recovered, "expected %s to fail", combinator)
	f, ok := AsFailure(recovered)
	require.True(t, ok, "panic value %v is not a *Failure", recovered)
	require.Equal(t, combinator, f.Combinator)
	return f
}

func mustGenerate[T any](t *testing.T, g Fuzzer[T], seed []byte) (T, []byte) {
	t.Helper()
	v, choices, ok := Generate(g, seed)
	require.True(t, ok, "fresh generation must not run out of choices")
	return v, choices
}
