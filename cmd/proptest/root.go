package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shipq/proptest/cli"
	"github.com/shipq/proptest/internal/config"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configDir string
	corpusURL string
	logFormat string
	logLevel  string

	cfg    *config.Config
	logger *slog.Logger
	out    *cli.Printer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "proptest",
		Short:         "Explore property-test fuzzers and their saved counterexamples",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", "", "directory to search for proptest.ini (default: current directory)")
	flags.StringVar(&a.corpusURL, "corpus", "", "corpus URL, overrides [corpus] url")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json or pretty")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newSampleCmd(a),
		newReplayCmd(a),
		newCorpusCmd(a),
		newConfigCmd(a),
	)
	return root
}

// load reads proptest.ini and applies the flag overrides.
func (a *app) load(cmd *cobra.Command) error {
	a.out = cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	if a.corpusURL != "" {
		cfg.Corpus.URL = a.corpusURL
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
