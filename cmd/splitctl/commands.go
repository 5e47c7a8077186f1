package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/mapping"
	"github.com/chris/split-ledger/pkg/models"
	"github.com/chris/split-ledger/pkg/money"
	"github.com/google/subcommands"
)

type addCmd struct {
	group        string
	payer        string
	total        string
	currency     string
	splits       string
	participants string
	category     string
	description  string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "draft a new expense" }
func (*addCmd) Usage() string {
	return `splitctl add -g <group> -payer <user> -total <amount> [-c <currency>] (-splits <u=amt,...> | -participants <u,...>)

  Drafts an expense. Amounts are given in major units ("12.50").
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.group, "g", "", "Group ID.")
	f.StringVar(&p.payer, "payer", "", "User who paid.")
	f.StringVar(&p.total, "total", "", "Total amount in major units.")
	f.StringVar(&p.currency, "c", "USD", "ISO 4217 currency code.")
	f.StringVar(&p.splits, "splits", "", "Explicit shares, user=amount comma separated.")
	f.StringVar(&p.participants, "participants", "", "Users sharing the total evenly, comma separated.")
	f.StringVar(&p.category, "category", "", "Optional category.")
	f.StringVar(&p.description, "d", "", "Optional description.")
}

func (p *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (p.splits == "") == (p.participants == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -splits and -participants is required.")
		return subcommands.ExitUsageError
	}
	total, err := money.ParseMajor(p.total, p.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing total: %v\n", err)
		return subcommands.ExitUsageError
	}

	service, closeAll, status := openService(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer closeAll()

	var exp *models.Expense
	if p.participants != "" {
		exp, err = service.CreateEqualExpense(ctx, expenses.EqualExpense{
			PayerUserID: p.payer, GroupID: p.group, TotalAmount: total, Currency: p.currency,
			Participants: parseList(p.participants), Category: p.category, Description: p.description,
		})
	} else {
		splits, perr := parseSplits(p.splits, p.currency)
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			return subcommands.ExitUsageError
		}
		exp, err = service.CreateExpense(ctx, expenses.NewExpense{
			PayerUserID: p.payer, GroupID: p.group, TotalAmount: total, Currency: p.currency,
			Splits: splits, Category: p.category, Description: p.description,
		})
	}
	return report(mapping.ToApiExpense, exp, err)
}

// transitionCmd is shared by confirm and reverse.
type transitionCmd struct {
	version int64
}

func (p *transitionCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.version, "v", 0, "Expected version of the expense.")
}

func (p *transitionCmd) run(ctx context.Context, f *flag.FlagSet, apply func(*expenses.Service) func(context.Context, string, int64) (*models.Expense, error)) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one expense ID.")
		return subcommands.ExitUsageError
	}
	service, closeAll, status := openService(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer closeAll()

	exp, err := apply(service)(ctx, f.Arg(0), p.version)
	return report(mapping.ToApiExpense, exp, err)
}

type confirmCmd struct{ transitionCmd }

func (*confirmCmd) Name() string     { return "confirm" }
func (*confirmCmd) Synopsis() string { return "confirm a draft expense and post it to the ledger" }
func (*confirmCmd) Usage() string    { return "splitctl confirm -v <version> <expense-id>\n" }

func (p *confirmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.run(ctx, f, func(s *expenses.Service) func(context.Context, string, int64) (*models.Expense, error) {
		return s.ConfirmExpense
	})
}

type reverseCmd struct{ transitionCmd }

func (*reverseCmd) Name() string     { return "reverse" }
func (*reverseCmd) Synopsis() string { return "reverse a confirmed expense" }
func (*reverseCmd) Usage() string    { return "splitctl reverse -v <version> <expense-id>\n" }

func (p *reverseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.run(ctx, f, func(s *expenses.Service) func(context.Context, string, int64) (*models.Expense, error) {
		return s.ReverseExpense
	})
}

type entriesCmd struct{}

func (*entriesCmd) Name() string             { return "entries" }
func (*entriesCmd) Synopsis() string         { return "list the ledger entries of an expense" }
func (*entriesCmd) Usage() string            { return "splitctl entries <expense-id>\n" }
func (*entriesCmd) SetFlags(f *flag.FlagSet) {}

func (*entriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one expense ID.")
		return subcommands.ExitUsageError
	}
	service, closeAll, status := openService(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer closeAll()

	entries, err := service.ListExpenseEntries(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, e := range entries {
		kind := "post"
		if e.IsReversal() {
			kind = "reverse"
		}
		fmt.Printf("%s\t%s\t%s -> %s\t%d\n", e.EntryID, kind, e.DebtorUserID, e.CreditorUserID, e.Amount)
	}
	return subcommands.ExitSuccess
}

type balanceCmd struct{}

func (*balanceCmd) Name() string             { return "balance" }
func (*balanceCmd) Synopsis() string         { return "show what a user owes and is owed" }
func (*balanceCmd) Usage() string            { return "splitctl balance <user-id>\n" }
func (*balanceCmd) SetFlags(f *flag.FlagSet) {}

func (*balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one user ID.")
		return subcommands.ExitUsageError
	}
	service, closeAll, status := openService(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer closeAll()

	balance, err := service.GetBalanceForUser(ctx, f.Arg(0))
	return report(mapping.ToApiUserBalance, balance, err)
}

type planCmd struct{}

func (*planCmd) Name() string             { return "plan" }
func (*planCmd) Synopsis() string         { return "print the transfers that settle a group" }
func (*planCmd) Usage() string            { return "splitctl plan <group-id>\n" }
func (*planCmd) SetFlags(f *flag.FlagSet) {}

func (*planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one group ID.")
		return subcommands.ExitUsageError
	}
	service, closeAll, status := openService(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer closeAll()

	transfers, err := service.GetSettlementPlan(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := printJSON(mapping.ToApiSettlementPlan(f.Arg(0), transfers)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type auditCmd struct {
	dryRun bool
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "rebuild a group's balances from its ledger" }
func (*auditCmd) Usage() string {
	return `splitctl audit [-n] <group-id>

  Replays the group's ledger and repairs cached balances that drifted.
  With -n the drift is only reported.
`
}

func (p *auditCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.dryRun, "n", false, "Report drift without repairing it.")
}

func (p *auditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one group ID.")
		return subcommands.ExitUsageError
	}
	service, closeAll, status := openService(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer closeAll()

	var (
		r   *audit.Report
		err error
	)
	if p.dryRun {
		r, err = service.Auditor.Verify(ctx, f.Arg(0))
	} else {
		r, err = service.RecomputeFromLedger(ctx, f.Arg(0))
	}
	if err != nil && !(errors.Is(err, audit.ErrConsistency) && r != nil) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, d := range r.Drifts {
		fmt.Fprintf(os.Stderr, "drift %s/%s: cached %d, ledger %d\n", d.Key.UserA, d.Key.UserB, d.Cached, d.Expected)
	}
	if err := printJSON(mapping.ToApiRecomputeResult(r)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(r.Drifts) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// report prints v through conv, or err.
func report[T any, R any](conv func(*T) R, v *T, err error) subcommands.ExitStatus {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := printJSON(conv(v)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
