package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	filter string
	head   int
	raw    bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list transactions, most recent first" }
func (*historyCmd) Usage() string {
	return `ft history [-t all|stock-in|stock-out|income|expense] [-head <n>] [-raw]

  Lists the transactions of the ledger, the most recently recorded first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "t", "all", "transaction type to list, or all")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := flowtrack.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.head < 0 {
		fmt.Fprintln(os.Stderr, "Error: -head must not be negative")
		return subcommands.ExitUsageError
	}

	ledger, err := OpenLedger(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	transactions := ledger.ByType(filter)
	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}

	md := renderer.HistoryMarkdown(transactions, filter)
	if c.raw {
		fmt.Fprint(stdout, md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}
