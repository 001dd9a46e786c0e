package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/jls/billbook"
	"github.com/jls/billbook/renderer"
)

type ledgerCmd struct {
	month   string
	opening float64
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "show the company's monthly cash ledgers" }
func (*ledgerCmd) Usage() string {
	return `bbk ledger [-month <2006-01>] [-opening <amount>]

  Folds disbursements, collected installments, settlements, partner
  transactions and expenses into monthly ledgers with running balances.
  Months without activity are carried forward unchanged.
`
}

func (p *ledgerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.month, "month", "", "Show a single month (format 2006-01).")
	f.Float64Var(&p.opening, "opening", 0, "Opening balance before the first event.")
}

func (p *ledgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	events, err := s.CompanyEvents()
	if err != nil {
		return fail(err)
	}
	ledgers := billbook.BuildMonthlyLedgers(events, billbook.M(p.opening, *currency))

	if p.month != "" {
		want, err := billbook.ParseDate(p.month + "-01")
		if err != nil {
			return fail(err)
		}
		for i := range ledgers {
			if ledgers[i].Month == billbook.MonthOf(want) {
				printMarkdown(renderer.LedgerMarkdown(&ledgers[i]))
				return subcommands.ExitSuccess
			}
		}
		printMarkdown("No ledger for " + p.month + ".")
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.LedgersMarkdown(ledgers))
	return subcommands.ExitSuccess
}
