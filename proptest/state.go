package proptest

import (
	"bytes"
	"fmt"
)

// State is the generator state threaded through every fuzzer. It is either a
// *Seeded state (fresh generation) or a *Replayed state (reading a recorded
// choice log). No other implementations exist.
type State interface {
	// Choices returns the bytes handed out so far, in draw order.
	Choices() []byte
	// Labels returns the labels recorded so far, in order.
	Labels() []string

	isState()
}

// Option configures the environment carried by a state.
type Option func(*env)

// WithMixer replaces the default Blake2b256 mixing function.
func WithMixer(m Mixer) Option {
	return func(e *env) {
		if m != nil {
			e.mix = m
		}
	}
}

// WithRetries sets the attempt budget of SuchThat and set deduplication.
// Non-positive values keep DefaultRetries.
func WithRetries(n int) Option {
	return func(e *env) {
		if n > 0 {
			e.retries = n
		}
	}
}

// env is shared, never modified after construction.
type env struct {
	mix     Mixer
	retries int
}

func newEnv(opts []Option) *env {
	e := &env{mix: Blake2b256, retries: DefaultRetries}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// choiceLog is a persistent list; the head is the most recent choice.
type choiceLog struct {
	choice byte
	prev   *choiceLog
	n      int
}

func (l *choiceLog) len() int {
	if l == nil {
		return 0
	}
	return l.n
}

func (l *choiceLog) push(b byte) *choiceLog {
	return &choiceLog{choice: b, prev: l, n: l.len() + 1}
}

func (l *choiceLog) bytes() []byte {
	out := make([]byte, l.len())
	for i, node := len(out)-1, l; node != nil; i, node = i-1, node.prev {
		out[i] = node.choice
	}
	return out
}

type labelList struct {
	text string
	prev *labelList
	n    int
}

func (l *labelList) push(text string) *labelList {
	n := 1
	if l != nil {
		n = l.n + 1
	}
	return &labelList{text: text, prev: l, n: n}
}

func (l *labelList) strings() []string {
	if l == nil {
		return nil
	}
	out := make([]string, l.n)
	for i, node := l.n-1, l; node != nil; i, node = i-1, node.prev {
		out[i] = node.text
	}
	return out
}

// Seeded is a fresh-generation state. Each draw hands out the first byte of
// the current seed and replaces the seed with its mix.
type Seeded struct {
	seed    []byte
	choices *choiceLog
	labels  *labelList
	env     *env
}

// NewSeeded returns a fresh state with an empty choice log. An empty seed is
// replaced by the mix of the empty string.
func NewSeeded(seed []byte, opts ...Option) *Seeded {
	e := newEnv(opts)
	if len(seed) == 0 {
		h := e.mix(nil)
		seed = h[:]
	} else {
		seed = bytes.Clone(seed)
	}
	return &Seeded{seed: seed, env: e}
}

// Seed returns a copy of the current seed.
func (s *Seeded) Seed() []byte { return bytes.Clone(s.seed) }

func (s *Seeded) Choices() []byte  { return s.choices.bytes() }
func (s *Seeded) Labels() []string { return s.labels.strings() }

// Next returns a fresh state continuing from the current seed, with an empty
// choice log and no labels. Drivers use it to chain test cases.
func (s *Seeded) Next() *Seeded {
	return &Seeded{seed: s.seed, env: s.env}
}

func (*Seeded) isState() {}

// Replayed reads a recorded choice log from the first-drawn byte onwards.
type Replayed struct {
	choices []byte
	cursor  int
	labels  *labelList
	env     *env
}

// NewReplayed returns a state that replays choices, which must be in draw
// order as returned by State.Choices. The slice is copied.
func NewReplayed(choices []byte, opts ...Option) *Replayed {
	c := bytes.Clone(choices)
	return &Replayed{choices: c, cursor: len(c), env: newEnv(opts)}
}

// Cursor returns the number of recorded bytes not consumed yet.
func (r *Replayed) Cursor() int { return r.cursor }

// Choices returns the consumed prefix of the recorded log.
func (r *Replayed) Choices() []byte {
	return bytes.Clone(r.choices[:len(r.choices)-r.cursor])
}

func (r *Replayed) Labels() []string { return r.labels.strings() }

func (*Replayed) isState() {}

func envOf(s State) *env {
	switch s := s.(type) {
	case *Seeded:
		return s.env
	case *Replayed:
		return s.env
	default:
		panic(unknownState(s))
	}
}

func withLabel(s State, text string) State {
	switch s := s.(type) {
	case *Seeded:
		next := *s
		next.labels = s.labels.push(text)
		return &next
	case *Replayed:
		next := *s
		next.labels = s.labels.push(text)
		return &next
	default:
		panic(unknownState(s))
	}
}

func unknownState(s State) *Failure {
	return &Failure{Combinator: "state", Reason: fmt.Sprintf("unsupported state %T", s)}
}
