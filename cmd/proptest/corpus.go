package main

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/shipq/proptest/corpus"
	"github.com/shipq/proptest/dburl"
	"github.com/shipq/proptest/proptest"
)

// maxHexColumn truncates choice logs in listings.
const maxHexColumn = 32

func newCorpusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect the saved counterexamples",
	}
	cmd.AddCommand(
		newCorpusListCmd(a),
		newCorpusShowCmd(a),
		newCorpusRmCmd(a),
		newCorpusWatchCmd(a),
	)
	return cmd
}

// withStore opens the configured corpus for fn. Corpora off this machine are
// shared with other runs, so the command says which one it is touching.
func (a *app) withStore(ctx context.Context, fn func(corpus.Store) error) error {
	url := a.cfg.Corpus.URL
	if !dburl.IsLocalhost(url) {
		a.out.Warnf("corpus %s is not on this machine", dburl.Redact(url))
	}
	store, err := a.cfg.OpenCorpus(ctx)
	if err != nil {
		return errors.Wrapf(err, "opening corpus %s", dburl.Redact(url))
	}
	defer store.Close()
	return fn(store)
}

func newCorpusListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [property]",
		Short: "List properties, or the entries of one property",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(store corpus.Store) error {
				if len(args) == 1 {
					return a.listEntries(ctx, store, args[0])
				}
				return a.listProperties(ctx, store)
			})
		},
	}
}

func (a *app) listProperties(ctx context.Context, store corpus.Store) error {
	props, err := store.Properties(ctx)
	if err != nil {
		return err
	}
	if len(props) == 0 {
		a.out.Info("corpus is empty")
		return nil
	}
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		entries, err := store.Load(ctx, p)
		if err != nil {
			return err
		}
		rows = append(rows, []string{p, strconv.Itoa(len(entries))})
	}
	return a.out.Table([]string{"property", "entries"}, rows)
}

func (a *app) listEntries(ctx context.Context, store corpus.Store, property string) error {
	entries, err := store.Load(ctx, property)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.out.Infof("no entries for %q", property)
		return nil
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		h := e.Hex()
		if len(h) > maxHexColumn {
			h = h[:maxHexColumn] + "..."
		}
		rows[i] = []string{e.ID, e.CreatedAt.Format(time.RFC3339), strconv.Itoa(len(e.Choices)), h}
	}
	return a.out.Table([]string{"id", "created", "bytes", "choices"}, rows)
}

func newCorpusShowCmd(a *app) *cobra.Command {
	var fuzzer string
	cmd := &cobra.Command{
		Use:   "show <property> <id>",
		Short: "Print one entry, optionally decoded by a built-in fuzzer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(store corpus.Store) error {
				e, err := store.Get(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				a.out.Infof("property: %s", e.Property)
				a.out.Infof("id:       %s", e.ID)
				a.out.Infof("created:  %s", e.CreatedAt.Format(time.RFC3339))
				a.out.Infof("choices:  %s", e.Hex())
				a.out.Infof("replay:   %s=%s", proptest.EnvReplay, e.Hex())
				if fuzzer == "" {
					return nil
				}
				a.out.Info("")
				return a.replay(fuzzer, e.Choices)
			})
		},
	}
	cmd.Flags().StringVar(&fuzzer, "fuzzer", "", "decode the entry with a built-in fuzzer")
	return cmd
}

func newCorpusRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <property> <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(store corpus.Store) error {
				if err := store.Delete(ctx, args[0], args[1]); err != nil {
					return err
				}
				a.logger.Info("deleted corpus entry", "property", args[0], "id", args[1])
				a.out.Successf("deleted %s/%s", args[0], args[1])
				return nil
			})
		},
	}
}

func newCorpusWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print entries as they are saved (directory corpora only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := dburl.Parse(a.cfg.Corpus.URL)
			if err != nil {
				return err
			}
			if loc.Kind != dburl.KindDir {
				return errors.Errorf("corpus watch needs a directory corpus, got %s", dburl.Redact(a.cfg.Corpus.URL))
			}
			w, err := corpus.NewWatcher(loc.Path)
			if err != nil {
				return err
			}
			a.logger.Info("watching corpus", "dir", loc.Path)
			return w.Run(cmd.Context(), func(e corpus.Entry) {
				a.out.Infof("%s\t%s\t%s", e.Property, e.ID, hex.EncodeToString(e.Choices))
			})
		},
	}
}
