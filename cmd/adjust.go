package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/jls/billbook"
)

type adjustCmd struct {
	date       string
	additional float64
	markup     float64
	months     int
	dueDay     int
	charge     float64
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "revise the open tail of a record's schedule" }
func (*adjustCmd) Usage() string {
	return `bbk adjust [-date <date>] [-additional <amount>] [-markup <percent>] [-months <n>] [-due-day <d>] [-charge <amount>] <record-id>

  Replaces the open installments with a re-amortized tail. Settled
  installments are untouched, the revision is appended to the record's
  adjustment history.
`
}

func (p *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "date", "", "Adjustment date. Defaults to today.")
	f.Float64Var(&p.additional, "additional", 0, "Additional principal advanced.")
	f.Float64Var(&p.markup, "markup", 0, "Markup rate in percent on the revised base.")
	f.IntVar(&p.months, "months", 0, "New duration in months. Defaults to the number of open installments.")
	f.IntVar(&p.dueDay, "due-day", 0, "New due day of month. Keeps the record's when zero.")
	f.Float64Var(&p.charge, "charge", 0, "Service charge added to the revised total.")
}

func (p *adjustCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var date billbook.Date
	if p.date != "" {
		var err error
		if date, err = billbook.ParseDate(p.date); err != nil {
			return fail(err)
		}
	}
	return mutateRecord(f, p.Usage(), func(r *billbook.FinancialRecord) error {
		return billbook.Adjustment{
			Date:              date,
			AdditionalAmount:  billbook.M(p.additional, r.Currency()),
			MarkupRate:        billbook.Percent(p.markup),
			DurationMonths:    p.months,
			InstallmentDueDay: p.dueDay,
			ServiceCharge:     billbook.M(p.charge, r.Currency()),
		}.Apply(r)
	})
}
