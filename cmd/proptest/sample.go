package main

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/shipq/proptest/proptest"
)

func newSampleCmd(a *app) *cobra.Command {
	var (
		count int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "sample <fuzzer>",
		Short: "Print values of a built-in fuzzer with their choice logs",
		Long: "Print values of a built-in fuzzer with their choice logs, then the\n" +
			"label distribution. Fuzzers: " + strings.Join(fuzzerNames(), ", ") + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return errors.Errorf("-n must be positive, got %d", count)
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Runner.Seed
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
			}
			return a.sample(args[0], count, seed)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of values")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed (default: [runner] seed, then the clock)")
	return cmd
}

func (a *app) options() ([]proptest.Option, error) {
	rc, err := a.cfg.RunnerConfig()
	if err != nil {
		return nil, err
	}
	return []proptest.Option{proptest.WithMixer(rc.Mixer), proptest.WithRetries(rc.Retries)}, nil
}

func (a *app) sample(name string, count int, seed int64) error {
	b, err := lookupFuzzer(name)
	if err != nil {
		return err
	}
	opts, err := a.options()
	if err != nil {
		return err
	}

	rep := &proptest.Report{Property: name, Seed: seed, Labels: make(map[string]int)}
	rows := make([][]string, 0, count)
	state := proptest.NewSeeded(proptest.SeedBytes(seed), opts...)
	for i := 1; i <= count; i++ {
		final, v, ok := b.fuzz(state)
		if !ok {
			return errors.Wrapf(proptest.ErrFreshExhausted, "%s, value %d", name, i)
		}
		rows = append(rows, []string{strconv.Itoa(i), v, hex.EncodeToString(final.Choices())})
		rep.Trials++
		rep.Count(final.Labels())
		state = final.(*proptest.Seeded).Next()
	}
	a.logger.Debug("sampled", "fuzzer", name, "seed", seed, "count", count)

	a.out.Infof("seed %d", seed)
	if err := a.out.Table([]string{"#", "value", "choices"}, rows); err != nil {
		return err
	}
	dist := rep.Distribution()
	if len(dist) == 0 {
		return nil
	}
	a.out.Info("")
	labelRows := make([][]string, len(dist))
	for i, row := range dist {
		labelRows[i] = []string{row.Label, strconv.Itoa(row.Count), strconv.FormatFloat(row.Percent, 'f', 1, 64) + "%"}
	}
	return a.out.Table([]string{"label", "count", "percent"}, labelRows)
}
