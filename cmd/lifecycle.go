package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jls/billbook"
)

// mutateRecord runs one record operation through the store and reports.
func mutateRecord(f *flag.FlagSet, usage string, mutate func(*billbook.FinancialRecord) error) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, usage)
		return subcommands.ExitUsageError
	}
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	record, err := s.Mutate(f.Arg(0), mutate)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Record %s is now %s\n", record.ID, record.Status)
	return subcommands.ExitSuccess
}

type approveCmd struct{}

func (*approveCmd) Name() string             { return "approve" }
func (*approveCmd) Synopsis() string         { return "approve a pending record" }
func (*approveCmd) Usage() string            { return "bbk approve <record-id>\n" }
func (*approveCmd) SetFlags(f *flag.FlagSet) {}

func (c *approveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return mutateRecord(f, c.Usage(), func(r *billbook.FinancialRecord) error { return r.Approve() })
}

type rejectCmd struct{}

func (*rejectCmd) Name() string             { return "reject" }
func (*rejectCmd) Synopsis() string         { return "reject a pending or approved record" }
func (*rejectCmd) Usage() string            { return "bbk reject <record-id>\n" }
func (*rejectCmd) SetFlags(f *flag.FlagSet) {}

func (c *rejectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return mutateRecord(f, c.Usage(), func(r *billbook.FinancialRecord) error { return r.Reject() })
}

type activateCmd struct {
	entry string
}

func (*activateCmd) Name() string     { return "activate" }
func (*activateCmd) Synopsis() string { return "activate an approved record (funds disbursed)" }
func (*activateCmd) Usage() string {
	return `bbk activate [-entry <date>] <record-id>

  Marks the record Active and stamps the disbursal date.
`
}

func (p *activateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.entry, "entry", "", "Disbursal date. Keeps the recorded entry date when empty.")
}

func (p *activateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var entryDate billbook.Date
	if p.entry != "" {
		var err error
		if entryDate, err = billbook.ParseDate(p.entry); err != nil {
			return fail(err)
		}
	}
	return mutateRecord(f, p.Usage(), func(r *billbook.FinancialRecord) error { return r.Activate(entryDate) })
}
