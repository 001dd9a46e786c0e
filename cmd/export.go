package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jls/billbook"
)

type exportCmd struct {
	output  string
	entries bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the record book as JSONL" }
func (*exportCmd) Usage() string {
	return `bbk export [-o <file>] [-entries]

  Writes every record as one JSON line, schedules, adjustment history and
  payment receipts included. With -entries, the company event stream is
  exported instead.
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Output file. Defaults to stdout.")
	f.BoolVar(&p.entries, "entries", false, "Export ledger entries instead of records.")
}

func (p *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	out := os.Stdout
	if p.output != "" {
		out, err = os.Create(p.output)
		if err != nil {
			return fail(err)
		}
		defer out.Close()
	}

	if p.entries {
		events, err := s.CompanyEvents()
		if err != nil {
			return fail(err)
		}
		if err := billbook.EncodeLedgerEntries(out, events); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}

	records, err := s.ListRecords()
	if err != nil {
		return fail(err)
	}
	if err := billbook.EncodeRecords(out, records); err != nil {
		return fail(err)
	}
	if p.output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d records to %s\n", len(records), p.output)
	}
	return subcommands.ExitSuccess
}
