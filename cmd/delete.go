package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/flowtrack/renderer"
	"github.com/google/subcommands"
)

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete transactions by id" }
func (*deleteCmd) Usage() string {
	return `ft delete <id>...

  Deletes the transactions with these ids. Unknown ids are ignored.
  Ids are listed by the history command.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one transaction id is required")
		return subcommands.ExitUsageError
	}

	ledger, err := OpenLedger(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, id := range f.Args() {
		tx, ok := ledger.Get(id)
		if !ok {
			fmt.Fprintf(os.Stderr, "No transaction %q, nothing to delete\n", id)
			continue
		}
		if err := ledger.Delete(id); err != nil {
			return report(err)
		}
		fmt.Fprintf(stdout, "Deleted %s [%s]\n", renderer.Transaction(tx), id)
	}
	return subcommands.ExitSuccess
}
