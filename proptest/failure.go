package proptest

import "fmt"

// Failure is the panic value of a hard failure: a fuzzer was built or used
// in a way that can never succeed (an empty choice list, an exhausted retry
// budget, impossible bounds). Unlike exhaustion it is never expected during
// a healthy run and must surface as a test error.
type Failure struct {
	Combinator string
	Reason     string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("proptest: %s: %s", f.Combinator, f.Reason)
}

// AsFailure reports whether a recovered panic value is a *Failure.
func AsFailure(recovered any) (*Failure, bool) {
	f, ok := recovered.(*Failure)
	return f, ok
}

func failf(combinator, format string, args ...any) *Failure {
	return &Failure{Combinator: combinator, Reason: fmt.Sprintf(format, args...)}
}
