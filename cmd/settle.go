package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/jls/billbook"
)

type settleCmd struct {
	date    string
	charges float64
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "pre-close a record by collecting the remainder" }
func (*settleCmd) Usage() string {
	return `bbk settle [-date <date>] [-charges <percent>] <record-id>

  Collects the outstanding remainder plus the percentage charges in one
  settlement, cancels the open installments and marks the record Settled.
`
}

func (p *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "date", "", "Settlement date. Defaults to today.")
	f.Float64Var(&p.charges, "charges", 0, "Pre-closure charges in percent of the outstanding amount.")
}

func (p *settleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var date billbook.Date
	if p.date != "" {
		var err error
		if date, err = billbook.ParseDate(p.date); err != nil {
			return fail(err)
		}
	}
	return mutateRecord(f, p.Usage(), func(r *billbook.FinancialRecord) error {
		return r.Settle(date, billbook.Percent(p.charges))
	})
}
