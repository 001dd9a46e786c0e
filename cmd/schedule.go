package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jls/billbook/renderer"
)

type scheduleCmd struct {
	history bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "show a record's running-balance schedule" }
func (*scheduleCmd) Usage() string {
	return `bbk schedule [-history] <record-id>

  Shows the installment schedule with opening and closing balances, the fee
  and principal split per installment. With -history, the adjustment history
  follows.
`
}

func (p *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.history, "history", false, "Also show the adjustment history.")
}

func (p *scheduleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, p.Usage())
		return subcommands.ExitUsageError
	}
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	record, _, err := s.GetRecord(f.Arg(0))
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.ScheduleMarkdown(record))
	if p.history {
		printMarkdown(renderer.HistoryMarkdown(record))
	}
	return subcommands.ExitSuccess
}
