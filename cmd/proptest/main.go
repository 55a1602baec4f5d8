// Command proptest samples the built-in fuzzers, replays choice logs and
// manages the corpus of saved counterexamples.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shipq/proptest/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		cli.Fatal(err.Error())
	}
}
