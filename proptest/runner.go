package proptest

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// Environment variables read by the runner.
const (
	EnvSeed   = "PROPTEST_SEED"
	EnvReplay = "PROPTEST_REPLAY"
)

var (
	// ErrCoverage is returned when a label falls below its required share.
	ErrCoverage = errors.New("label coverage below minimum")
	// ErrFreshExhausted is returned when a fuzzer gives up on a Seeded state,
	// which no combinator in this package does.
	ErrFreshExhausted = errors.New("fuzzer exhausted during fresh generation")
)

// Corpus persists choice logs of failing cases so later runs replay them
// before generating fresh ones. corpus.Adapter adapts a corpus.Store.
type Corpus interface {
	Load(ctx context.Context, property string) ([][]byte, error)
	Save(ctx context.Context, property string, choices []byte) error
}

// Config controls property runs.
type Config struct {
	// NumTrials is the number of fresh cases. Default: 100.
	NumTrials int

	// Seed starts the fresh cases. 0 means PROPTEST_SEED, then the clock.
	Seed int64

	// Verbose logs the label distribution at Info level.
	Verbose bool

	// Retries is the SuchThat/set budget. Default: DefaultRetries.
	Retries int

	// Mixer defaults to Blake2b256.
	Mixer Mixer

	// Corpus is optional.
	Corpus Corpus

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// Coverage maps labels to the minimum percentage of fresh cases that
	// must carry them. Labels match regardless of case.
	Coverage map[string]float64
}

// DefaultConfig returns sensible defaults for property testing.
func DefaultConfig() Config {
	return Config{
		NumTrials: 100,
		Retries:   DefaultRetries,
	}
}

func (c Config) options() []Option {
	return []Option{WithMixer(c.Mixer), WithRetries(c.Retries)}
}

// getEffectiveSeed returns the seed to use, checking the environment first.
func getEffectiveSeed(cfg Config) int64 {
	if envSeed := os.Getenv(EnvSeed); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}

	if cfg.Seed != 0 {
		return cfg.Seed
	}

	return time.Now().UnixNano()
}

// SeedBytes is the initial Seeded seed for an integer seed: the Blake2b256
// mix of its 8 big-endian bytes, so the first draw already depends on every
// bit of the seed.
func SeedBytes(seed int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(seed))
	h := Blake2b256(b[:])
	return h[:]
}

// Case sources reported in a Counterexample.
const (
	SourceFresh  = "fresh"
	SourceCorpus = "corpus"
	SourceEnv    = "env"
)

// Counterexample describes a case the property rejected.
type Counterexample struct {
	Value   any
	Choices []byte
	Labels  []string
	Source  string
	Seed    int64
	// Trial is 1-based for fresh cases and 0 for replays.
	Trial int
	Err   error
}

// Hex returns the choice log in the form PROPTEST_REPLAY accepts.
func (c *Counterexample) Hex() string {
	return hex.EncodeToString(c.Choices)
}

// Report summarises a property run.
type Report struct {
	Property string
	Seed     int64
	// Trials is the number of fresh cases that ran.
	Trials int
	// Replayed counts corpus or environment cases that replayed fully.
	Replayed int
	// Discarded counts replays that ran out of choices.
	Discarded      int
	Labels         map[string]int
	Counterexample *Counterexample
}

// Passed reports whether no counterexample was found.
func (r *Report) Passed() bool {
	return r.Counterexample == nil
}

// LabelCount is one row of a label distribution.
type LabelCount struct {
	Label   string
	Count   int
	Percent float64
}

// Distribution returns the labels sorted by decreasing count, then name.
// Percentages are relative to the fresh trials.
func (r *Report) Distribution() []LabelCount {
	out := make([]LabelCount, 0, len(r.Labels))
	for label, count := range r.Labels {
		pct := 0.0
		if r.Trials > 0 {
			pct = 100 * float64(count) / float64(r.Trials)
		}
		out = append(out, LabelCount{Label: label, Count: count, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Run checks prop against replayed and fresh values of g.
//
// PROPTEST_REPLAY (a hex choice log) is replayed first when set, otherwise
// every corpus entry for name. Replays that run out of choices are discarded.
// Then NumTrials fresh cases run, each starting from the seed the previous
// one left behind. The first rejected value stops the run and is saved to
// the corpus. A hard failure inside a fuzzer is returned as an error
// wrapping the *Failure.
func Run[T any](ctx context.Context, name string, cfg Config, g Fuzzer[T], prop func(T) error) (*Report, error) {
	if cfg.NumTrials <= 0 {
		cfg.NumTrials = 100
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("property", name)

	seed := getEffectiveSeed(cfg)
	rep := &Report{Property: name, Seed: seed, Labels: make(map[string]int)}

	replays, source, err := pendingReplays(ctx, name, cfg)
	if err != nil {
		return rep, err
	}
	for _, choices := range replays {
		res, err := runCase(g, prop, NewReplayed(choices, cfg.options()...))
		if err != nil {
			return rep, err
		}
		if res.exhausted {
			rep.Discarded++
			logger.Warn("discarding replay that ran out of choices", "choices", hex.EncodeToString(choices))
			continue
		}
		rep.Replayed++
		if res.err != nil {
			rep.Counterexample = res.counterexample(source, seed, 0)
			logger.Error("replayed case still fails", "choices", rep.Counterexample.Hex(), "error", res.err)
			return rep, nil
		}
	}

	state := NewSeeded(SeedBytes(seed), cfg.options()...)
	for trial := 1; trial <= cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return rep, errors.Wrapf(err, "property %q interrupted after %d trials", name, rep.Trials)
		}
		res, err := runCase(g, prop, state)
		if err != nil {
			return rep, err
		}
		if res.exhausted {
			return rep, errors.Wrapf(ErrFreshExhausted, "property %q, trial %d", name, trial)
		}
		rep.Trials++
		rep.Count(res.final.Labels())

		if res.err != nil {
			rep.Counterexample = res.counterexample(SourceFresh, seed, trial)
			logger.Error("property failed",
				"seed", seed,
				"trial", trial,
				"choices", rep.Counterexample.Hex(),
				"error", res.err,
			)
			if cfg.Corpus != nil {
				if err := cfg.Corpus.Save(ctx, name, res.final.Choices()); err != nil {
					return rep, errors.Wrapf(err, "saving counterexample of %q", name)
				}
			}
			return rep, nil
		}
		state = res.final.(*Seeded).Next()
	}

	if cfg.Verbose {
		for _, row := range rep.Distribution() {
			logger.Info("label", "label", row.Label, "count", row.Count, "percent", row.Percent)
		}
	}
	logger.Debug("property passed", "seed", seed, "trials", rep.Trials, "replayed", rep.Replayed)

	if err := checkCoverage(rep, cfg.Coverage); err != nil {
		return rep, err
	}
	return rep, nil
}

func pendingReplays(ctx context.Context, name string, cfg Config) ([][]byte, string, error) {
	if env := os.Getenv(EnvReplay); env != "" {
		choices, err := hex.DecodeString(env)
		if err != nil {
			return nil, "", errors.Wrapf(err, "decoding %s", EnvReplay)
		}
		return [][]byte{choices}, SourceEnv, nil
	}
	if cfg.Corpus == nil {
		return nil, "", nil
	}
	entries, err := cfg.Corpus.Load(ctx, name)
	if err != nil {
		return nil, "", errors.Wrapf(err, "loading corpus of %q", name)
	}
	return entries, SourceCorpus, nil
}

type caseResult[T any] struct {
	final     State
	value     T
	exhausted bool
	err       error
}

func (r caseResult[T]) counterexample(source string, seed int64, trial int) *Counterexample {
	return &Counterexample{
		Value:   r.value,
		Choices: r.final.Choices(),
		Labels:  r.final.Labels(),
		Source:  source,
		Seed:    seed,
		Trial:   trial,
		Err:     r.err,
	}
}

// runCase generates one value and checks it. Hard failures become errors;
// any other panic propagates.
func runCase[T any](g Fuzzer[T], prop func(T) error, s State) (res caseResult[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := AsFailure(r)
			if !ok {
				panic(r)
			}
			err = errors.WithStack(f)
		}
	}()

	final, v, ok := g(s)
	if !ok {
		return caseResult[T]{exhausted: true}, nil
	}
	return caseResult[T]{final: final, value: v, err: prop(v)}, nil
}

// Count records the labels of one case, counting each distinct label once.
func (r *Report) Count(labels []string) {
	if r.Labels == nil {
		r.Labels = make(map[string]int)
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		r.Labels[l]++
	}
}

// labelCount sums the counts of the labels equal to label under case folding.
func (r *Report) labelCount(label string) int {
	n := r.Labels[label]
	for l, c := range r.Labels {
		if l != label && strings.EqualFold(l, label) {
			n += c
		}
	}
	return n
}

func checkCoverage(rep *Report, coverage map[string]float64) error {
	labels := make([]string, 0, len(coverage))
	for label := range coverage {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		pct := 0.0
		if rep.Trials > 0 {
			pct = 100 * float64(rep.labelCount(label)) / float64(rep.Trials)
		}
		if pct < coverage[label] {
			return errors.Wrapf(ErrCoverage, "%q: %.1f%% < %.1f%%", label, pct, coverage[label])
		}
	}
	return nil
}

// Check runs a property with the given configuration and fails t with the
// seed and choice log of any counterexample.
//
// Example:
//
//	proptest.Check(t, "small ints", proptest.Config{NumTrials: 50}, proptest.Int(), func(n int) bool {
//	    return n >= -255 && n <= 16383
//	})
func Check[T any](t testing.TB, name string, cfg Config, g Fuzzer[T], prop func(T) bool) {
	t.Helper()
	check(t, name, cfg, g, func(v T) error {
		if !prop(v) {
			return errors.New("property returned false")
		}
		return nil
	})
}

// QuickCheck runs a property with the default configuration.
func QuickCheck[T any](t testing.TB, name string, g Fuzzer[T], prop func(T) bool) {
	t.Helper()
	Check(t, name, DefaultConfig(), g, prop)
}

// ForAll runs a property that explains its failures with an error.
func ForAll[T any](t testing.TB, name string, g Fuzzer[T], prop func(T) error) {
	t.Helper()
	check(t, name, DefaultConfig(), g, prop)
}

func check[T any](t testing.TB, name string, cfg Config, g Fuzzer[T], prop func(T) error) {
	t.Helper()
	rep, err := Run(context.Background(), name, cfg, g, prop)
	if err != nil {
		t.Fatalf("proptest %q: %v", name, err)
		return
	}
	if ce := rep.Counterexample; ce != nil {
		t.Errorf("proptest %q failed (%s) with value %+v: %v\n%s",
			name, describeCase(ce), ce.Value, ce.Err, reproduceHint(ce))
	}
}

func describeCase(ce *Counterexample) string {
	if ce.Source == SourceFresh {
		return fmt.Sprintf("trial %d, seed=%d", ce.Trial, ce.Seed)
	}
	return "replayed from " + ce.Source
}

func reproduceHint(ce *Counterexample) string {
	return fmt.Sprintf("use %s=%d or %s=%s to reproduce", EnvSeed, ce.Seed, EnvReplay, ce.Hex())
}

// Generate runs g once on a fresh state built from seed and returns the value
// with its choice log.
func Generate[T any](g Fuzzer[T], seed []byte, opts ...Option) (T, []byte, bool) {
	final, v, ok := g(NewSeeded(seed, opts...))
	if !ok {
		return v, nil, false
	}
	return v, final.Choices(), true
}

// Replay runs g against a recorded choice log.
func Replay[T any](g Fuzzer[T], choices []byte, opts ...Option) (T, bool) {
	_, v, ok := g(NewReplayed(choices, opts...))
	return v, ok
}
