// Command splitctl administers a split-ledger deployment directly against its
// configured store.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&addCmd{}, "expenses")
	subcommands.Register(&confirmCmd{}, "expenses")
	subcommands.Register(&reverseCmd{}, "expenses")
	subcommands.Register(&entriesCmd{}, "expenses")

	subcommands.Register(&balanceCmd{}, "balances")
	subcommands.Register(&planCmd{}, "balances")
	subcommands.Register(&auditCmd{}, "balances")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
