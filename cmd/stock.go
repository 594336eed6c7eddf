package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/date"
	"github.com/etnz/flowtrack/renderer"
	"github.com/google/subcommands"
)

// stockCmd records goods received or dispensed.
type stockCmd struct {
	direction flowtrack.Type
	name      string
	item      string
	quantity  string
	day       string
	notes     optionalString
}

func (c *stockCmd) Name() string { return string(c.direction) }
func (c *stockCmd) Synopsis() string {
	if c.direction == flowtrack.TypeStockIn {
		return "record goods received"
	}
	return "record goods dispensed"
}
func (c *stockCmd) Usage() string {
	return fmt.Sprintf(`ft %s -n <name> -i <item> -q <quantity> [-notes <text>] [-d <date>]

  Records a %s movement. The name is the supplier or the customer.
  The quantity is a positive whole number. The date defaults to today.
`, c.direction, c.direction)
}

func (c *stockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "supplier or customer name")
	f.StringVar(&c.item, "i", "", "item moved")
	f.StringVar(&c.quantity, "q", "", "number of items")
	f.StringVar(&c.day, "d", "", "date of the movement (YYYY-MM-DD, MM-DD, DD or relative like -1d)")
	f.Var(&c.notes, "notes", "optional notes")
}

func (c *stockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}
	day, err := parseDay(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	qty, err := flowtrack.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := OpenLedger(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	draft := flowtrack.NewStockDraft(c.direction, day, c.name, c.item, qty, c.notes.ptr())
	return record(ledger, draft)
}

// record adds the draft to the ledger and prints the result.
func record(ledger *flowtrack.Ledger, draft flowtrack.Draft) subcommands.ExitStatus {
	tx, err := ledger.Add(draft)
	if tx != nil {
		fmt.Fprintf(stdout, "Recorded %s [%s]\n", renderer.Transaction(tx), tx.ID())
	}
	return report(err)
}

// parseDay parses a date entered by the user, today when empty.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}
