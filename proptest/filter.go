package proptest

// SuchThat runs g until pred accepts a value. Exhausting the state's retry
// budget (DefaultRetries unless set WithRetries) is a hard failure: callers
// should constrain g instead of filtering out most of its values.
func SuchThat[T any](g Fuzzer[T], pred func(T) bool) Fuzzer[T] {
	return func(s State) (State, T, bool) {
		var zero T
		retries := envOf(s).retries
		for attempt := 0; attempt < retries; attempt++ {
			next, v, ok := g(s)
			if !ok {
				return nil, zero, false
			}
			if pred(v) {
				return next, v, true
			}
			s = next
		}
		panic(failf("SuchThat", "no value satisfied the predicate after %d attempts", retries))
	}
}
