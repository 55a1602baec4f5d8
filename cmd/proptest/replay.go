package main

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/shipq/proptest/proptest"
)

func newReplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <fuzzer> <hex>",
		Short: "Replay a choice log through a built-in fuzzer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			choices, err := hex.DecodeString(strings.TrimSpace(args[1]))
			if err != nil {
				return errors.Wrap(err, "decoding choice log")
			}
			return a.replay(args[0], choices)
		},
	}
}

func (a *app) replay(name string, choices []byte) error {
	b, err := lookupFuzzer(name)
	if err != nil {
		return err
	}
	opts, err := a.options()
	if err != nil {
		return err
	}

	final, v, ok := b.fuzz(proptest.NewReplayed(choices, opts...))
	if !ok {
		a.out.Info("exhausted")
		return nil
	}
	a.out.Info(v)
	if labels := final.Labels(); len(labels) > 0 {
		a.out.Infof("labels: %s", strings.Join(labels, ", "))
	}
	if rest := final.(*proptest.Replayed).Cursor(); rest > 0 {
		a.out.Warnf("%d trailing choice bytes were not used", rest)
	}
	return nil
}
