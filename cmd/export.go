package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/xlsx"
	"github.com/google/subcommands"
)

type exportCmd struct {
	filter string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions to an Excel workbook" }
func (*exportCmd) Usage() string {
	return `ft export [-t all|stock-in|stock-out|income|expense] -o <file.xlsx>

  Writes the transactions, most recent first, to an XLSX workbook.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "t", "all", "transaction type to export, or all")
	f.StringVar(&c.output, "o", "", "path of the workbook to write")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.output == "" {
		fmt.Fprintln(os.Stderr, "Error: -o is required")
		return subcommands.ExitUsageError
	}
	filter, err := flowtrack.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := OpenLedger(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	transactions := ledger.ByType(filter)

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	if err := xlsx.Export(out, transactions); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error exporting to %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "Exported %d transactions to %s\n", len(transactions), c.output)
	return subcommands.ExitSuccess
}
