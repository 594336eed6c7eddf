// Command ft records goods and cash movements in a local ledger file.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/flowtrack/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "ft")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell for completion.
	cmd.Completion().Complete("ft")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
