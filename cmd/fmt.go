package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "formats the ledger file into a canonical form" }
func (*fmtCmd) Usage() string {
	return `ft fmt

  Rewrites the ledger file into a canonical form: one transaction per line,
  fields in a fixed order, most recent first.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := OpenLedger(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := ledger.Save(); err != nil {
		return report(err)
	}
	fmt.Fprintf(stdout, "Ledger formatted, %d transactions.\n", ledger.Len())
	return subcommands.ExitSuccess
}
