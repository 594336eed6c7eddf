package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/flowtrack"
	"github.com/google/subcommands"
)

// paymentCmd records money received or spent. Without a direction, it is
// the generic "payment" command taking it from the -t flag.
type paymentCmd struct {
	direction flowtrack.Type
	kind      string
	name      string
	amount    string
	currency  string
	day       string
	notes     optionalString
}

func (c *paymentCmd) Name() string {
	if c.direction == "" {
		return "payment"
	}
	return string(c.direction)
}

func (c *paymentCmd) Synopsis() string {
	switch c.direction {
	case flowtrack.TypeIncome:
		return "record money received"
	case flowtrack.TypeExpense:
		return "record money spent"
	default:
		return "record money received or spent"
	}
}

func (c *paymentCmd) Usage() string {
	if c.direction == "" {
		return `ft payment -t income|expense -n <name> -a <amount> [-c <currency>] [-notes <text>] [-d <date>]

  Records an income or an expense, the same as the income and expense commands.
`
	}
	return fmt.Sprintf(`ft %s -n <name> -a <amount> [-c <currency>] [-notes <text>] [-d <date>]

  Records an %s. The name is the source or the description.
  The amount is positive, in the configured currency unless -c is given.
  The date defaults to today.
`, c.direction, c.direction)
}

func (c *paymentCmd) SetFlags(f *flag.FlagSet) {
	if c.direction == "" {
		f.StringVar(&c.kind, "t", "", "payment type: income or expense")
	}
	f.StringVar(&c.name, "n", "", "source or description")
	f.StringVar(&c.amount, "a", "", "positive amount")
	f.StringVar(&c.currency, "c", "", "currency of the amount")
	f.StringVar(&c.day, "d", "", "date of the payment (YYYY-MM-DD, MM-DD, DD or relative like -1d)")
	f.Var(&c.notes, "notes", "optional notes")
}

func (c *paymentCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}
	direction := c.direction
	if direction == "" {
		t, err := flowtrack.ParseType(c.kind)
		if err != nil || !t.IsPayment() {
			fmt.Fprintf(os.Stderr, "Error: -t must be %q or %q, got %q\n", flowtrack.TypeIncome, flowtrack.TypeExpense, c.kind)
			return subcommands.ExitUsageError
		}
		direction = t
	}
	day, err := parseDay(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := flowtrack.ParseMoney(c.amount, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.currency != "" && !flowtrack.KnownCurrency(c.currency) {
		fmt.Fprintf(os.Stderr, "Error: unknown currency %q\n", c.currency)
		return subcommands.ExitUsageError
	}

	ledger, err := OpenLedger(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	draft := flowtrack.NewPaymentDraft(direction, day, c.name, amount, c.notes.ptr())
	return record(ledger, draft)
}
