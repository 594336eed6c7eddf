// Package cmd implements the CLI application to manage a stock and cash ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/config"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&stockCmd{direction: flowtrack.TypeStockIn}, "transactions")
	c.Register(&stockCmd{direction: flowtrack.TypeStockOut}, "transactions")
	c.Register(&paymentCmd{direction: flowtrack.TypeIncome}, "transactions")
	c.Register(&paymentCmd{direction: flowtrack.TypeExpense}, "transactions")
	c.Register(&paymentCmd{}, "transactions")
	c.Register(&deleteCmd{}, "transactions")

	c.Register(&historyCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&importCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the YAML configuration file (default $HOME/.flowtrack.yaml)")
	ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format), overrides the configuration")
	currency   = flag.String("currency", "", "Currency of amounts entered without one, overrides the configuration")
	verbose    = flag.Bool("v", false, "Print debug logs")
)

// stdout receives the output of commands.
var stdout io.Writer = os.Stdout

// settings returns the configuration, with the global flags applied.
func settings() (*config.Config, error) {
	if err := config.LoadDotEnv(config.DotEnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	if *currency != "" {
		cfg.Currency = *currency
	}
	if *verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns the logger of the CLI, writing to stderr.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// OpenLedger is the central function to open the ledger of the configured file.
//
// An unreadable ledger file is reported on stderr. Read-only commands then
// work on an empty ledger, but commands that write (mutating) fail rather
// than overwrite the file.
func OpenLedger(mutating bool) (*flowtrack.Ledger, error) {
	cfg, err := settings()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Verbose)
	ledger, err := flowtrack.Open(flowtrack.NewFileStorage(cfg.LedgerFile),
		flowtrack.WithLogger(logger),
		flowtrack.WithCurrency(cfg.Currency),
	)
	if err != nil {
		if mutating {
			return nil, fmt.Errorf("%w, fix or move %q before recording changes", err, cfg.LedgerFile)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v, showing an empty ledger\n", err)
	}
	return ledger, nil
}

// report prints the outcome of a ledger change, and returns the exit status
// for err. A *flowtrack.SaveError means the change is visible in this run
// only.
func report(err error) subcommands.ExitStatus {
	var saveErr *flowtrack.SaveError
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.As(err, &saveErr):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return subcommands.ExitFailure
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
}

// printMarkdown renders markdown for the terminal. It falls back to the raw
// markdown when it cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// optionalString is a flag.Value that remembers whether it was set at all.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}

// ptr returns nil when the flag was not set.
func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	return flowtrack.Text(o.value)
}
