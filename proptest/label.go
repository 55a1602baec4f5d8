package proptest

// Label records text against the current run. Labels are collected by the
// driver to report how often each kind of case was generated; they never
// consume entropy or touch the choice log.
func Label(text string) Fuzzer[struct{}] {
	return func(s State) (State, struct{}, bool) {
		return withLabel(s, text), struct{}{}, true
	}
}

// LabelIf records text only when cond holds.
func LabelIf(cond bool, text string) Fuzzer[struct{}] {
	if !cond {
		return Constant(struct{}{})
	}
	return Label(text)
}

// Labelled labels every value produced by g with f(value).
func Labelled[T any](g Fuzzer[T], f func(T) string) Fuzzer[T] {
	return func(s State) (State, T, bool) {
		s, v, ok := g(s)
		if !ok {
			return nil, v, false
		}
		return withLabel(s, f(v)), v, true
	}
}
