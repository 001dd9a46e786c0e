package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jls/billbook"
)

type partnerCmd struct {
	name     string
	txType   string
	amount   float64
	date     string
	withdraw bool
}

func (*partnerCmd) Name() string     { return "partner" }
func (*partnerCmd) Synopsis() string { return "record a partner investment or withdrawal" }
func (*partnerCmd) Usage() string {
	return `bbk partner -name <partner> -amount <amount> [-withdraw] [-date <date>]

  Records cash a partner put into or took out of the company. The ledger
  credits investments and debits withdrawals.
`
}

func (p *partnerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Partner name.")
	f.Float64Var(&p.amount, "amount", 0, "Amount moved.")
	f.BoolVar(&p.withdraw, "withdraw", false, "Withdrawal instead of investment.")
	f.StringVar(&p.date, "date", "", "Transaction date. Defaults to today.")
}

func (p *partnerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date := billbook.Today()
	if p.date != "" {
		var err error
		if date, err = billbook.ParseDate(p.date); err != nil {
			return fail(err)
		}
	}
	p.txType = "investment"
	if p.withdraw {
		p.txType = "withdrawal"
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	tx, err := s.AddPartnerTransaction(billbook.PartnerTransaction{
		Date:        date,
		PartnerName: p.name,
		Type:        p.txType,
		Amount:      billbook.M(p.amount, *currency),
	})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Recorded %s %s by %s\n", tx.Amount, tx.Type, tx.PartnerName)
	return subcommands.ExitSuccess
}

type expenseCmd struct {
	narration string
	amount    float64
	date      string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record a company expense" }
func (*expenseCmd) Usage() string {
	return `bbk expense -narration <text> -amount <amount> [-date <date>]

  Records a dated expense. Expenses debit the company ledger.
`
}

func (p *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.narration, "narration", "", "What the expense was for.")
	f.Float64Var(&p.amount, "amount", 0, "Amount spent.")
	f.StringVar(&p.date, "date", "", "Expense date. Defaults to today.")
}

func (p *expenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date := billbook.Today()
	if p.date != "" {
		var err error
		if date, err = billbook.ParseDate(p.date); err != nil {
			return fail(err)
		}
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	e, err := s.AddExpense(billbook.Expense{
		Date:      date,
		Narration: p.narration,
		Amount:    billbook.M(p.amount, *currency),
	})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Recorded expense %s: %s\n", e.Amount, e.Narration)
	return subcommands.ExitSuccess
}
