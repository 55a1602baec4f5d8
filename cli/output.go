// Package cli holds the terminal output helpers of the proptest command.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Fatal prints a message to stderr and exits with code 1.
func Fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error:", msg)
	os.Exit(1)
}

// FatalErr prints an error message with details to stderr and exits with code 1.
func FatalErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// Printer writes human-oriented output. Commands build one from their
// cobra streams so tests can capture it.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a Printer on the given streams; nil means the process
// stdout or stderr.
func NewPrinter(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{Out: out, Err: errOut}
}

// Info prints an informational message.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.Out, msg)
}

// Infof is Info with a format string.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Success prints a message prefixed with a check mark.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.Out, "✓", msg)
}

// Successf is Success with a format string.
func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintf(p.Out, "✓ "+format+"\n", args...)
}

// Warn prints a warning to the error stream.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.Err, "warning:", msg)
}

// Warnf is Warn with a format string.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.Err, "warning: "+format+"\n", args...)
}

// Table prints rows aligned on tab stops under an upper-cased header.
func (p *Printer) Table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.Out, 0, 4, 2, ' ', 0)
	upper := make([]string, len(header))
	for i, h := range header {
		upper[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(tw, strings.Join(upper, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
