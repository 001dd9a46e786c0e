package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/jls/billbook"
	"github.com/jls/billbook/renderer"
)

type dueCmd struct {
	date string
}

func (*dueCmd) Name() string     { return "due" }
func (*dueCmd) Synopsis() string { return "list overdue installments across all records" }
func (*dueCmd) Usage() string {
	return `bbk due [-date <date>]

  Lists every installment past its due date and still unpaid as of the given
  date. Overdue is a projection: nothing is written.
`
}

func (p *dueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "date", "", "Reference date. Defaults to today.")
}

func (p *dueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := billbook.Today()
	if p.date != "" {
		var err error
		if asOf, err = billbook.ParseDate(p.date); err != nil {
			return fail(err)
		}
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	records, err := s.ListRecordsByStatus(billbook.StatusActive)
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.DueMarkdown(records, asOf))
	return subcommands.ExitSuccess
}
