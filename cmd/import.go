package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/flowtrack"
	"github.com/google/subcommands"
)

type importCmd struct {
	path string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions recorded by the FlowTrack web app" }
func (*importCmd) Usage() string {
	return `ft import [-path <jsonpath>] <file>

  Imports the transactions of a JSON file exported from the local storage of
  a browser running the FlowTrack web app. The transactions are added to the
  ledger with new ids, oldest first, so the ledger keeps their order.

  -path locates the list of transactions in the file. Use "$" if the file
  holds the list itself.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", flowtrack.DefaultBrowserPath, "JSONPath of the transactions in the file")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one file to import is required")
		return subcommands.ExitUsageError
	}

	ledger, err := OpenLedger(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening import file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	// every draft is valid or none is added.
	drafts, err := flowtrack.ImportBrowser(file, c.path, ledger.Currency())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	for i := len(drafts) - 1; i >= 0; i-- {
		if _, err := ledger.Add(drafts[i]); err != nil {
			fmt.Fprintf(stdout, "Imported %d of %d transactions\n", len(drafts)-1-i, len(drafts))
			return report(err)
		}
	}
	fmt.Fprintf(stdout, "Imported %d transactions\n", len(drafts))
	return subcommands.ExitSuccess
}
