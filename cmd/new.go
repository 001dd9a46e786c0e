package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/jls/billbook"
)

type newCmd struct {
	id       string
	customer string
	amount   float64
	markup   float64
	months   int
	dueDay   int
	charge   float64
	entry    string
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "create a new financial record with its schedule" }
func (*newCmd) Usage() string {
	return `bbk new -customer <id> -amount <principal> [-markup <percent>] -months <n> [-due-day <d>] [-charge <amount>] [-entry <date>]

  Creates a Pending record and generates its installment schedule: the
  principal plus the flat markup and service charge, split evenly over the
  months, with the last installment absorbing the rounding residual.
`
}

func (p *newCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Record id. Generated when empty.")
	f.StringVar(&p.customer, "customer", "", "Customer id.")
	f.Float64Var(&p.amount, "amount", 0, "Principal amount.")
	f.Float64Var(&p.markup, "markup", 0, "Flat markup rate in percent over the full duration.")
	f.IntVar(&p.months, "months", 0, "Duration in months.")
	f.IntVar(&p.dueDay, "due-day", 0, "Installment due day of month (1-31). Defaults to the entry date's day.")
	f.Float64Var(&p.charge, "charge", 0, "One-time service charge.")
	f.StringVar(&p.entry, "entry", "", "Entry (disbursal) date. Defaults to today.")
}

func (p *newCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var entryDate billbook.Date
	if p.entry != "" {
		var err error
		if entryDate, err = billbook.ParseDate(p.entry); err != nil {
			return fail(err)
		}
	}
	if p.id == "" {
		p.id = uuid.NewString()
	}

	record, err := billbook.NewRecord(p.id, p.customer, billbook.Terms{
		Amount:            billbook.M(p.amount, *currency),
		MarkupRate:        billbook.Percent(p.markup),
		DurationMonths:    p.months,
		InstallmentDueDay: p.dueDay,
		ServiceCharge:     billbook.M(p.charge, *currency),
		EntryDate:         entryDate,
	})
	if err != nil {
		return fail(err)
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()
	if err := s.CreateRecord(record); err != nil {
		return fail(err)
	}

	fmt.Fprintf(os.Stderr, "Created record %s: %d installments of %s\n",
		record.ID, record.DurationMonths, record.InstallmentAmount)
	fmt.Println(record.ID)
	return subcommands.ExitSuccess
}
