package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/jls/billbook"
)

type payCmd struct {
	payment     string
	installment int
	amount      float64
	date        string
	method      string
	remark      string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a payment against an installment" }
func (*payCmd) Usage() string {
	return `bbk pay -n <installment> -amount <amount> [-payment <id>] [-date <date>] [-method <m>] [-remark <r>] <record-id>

  Applies a payment to the installment. Re-running with the same -payment id
  is rejected, so a retried command never double-counts.
`
}

func (p *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.payment, "payment", "", "Payment id (receipt number). Generated when empty.")
	f.IntVar(&p.installment, "n", 0, "Installment number to pay.")
	f.Float64Var(&p.amount, "amount", 0, "Amount paid.")
	f.StringVar(&p.date, "date", "", "Payment date. Defaults to today.")
	f.StringVar(&p.method, "method", "cash", "Payment method.")
	f.StringVar(&p.remark, "remark", "", "Free-form remark.")
}

func (p *payCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var date billbook.Date
	if p.date != "" {
		var err error
		if date, err = billbook.ParseDate(p.date); err != nil {
			return fail(err)
		}
	}
	if p.payment == "" {
		p.payment = uuid.NewString()
	}
	return mutateRecord(f, p.Usage(), func(r *billbook.FinancialRecord) error {
		return r.RecordPayment(billbook.Payment{
			ID:                p.payment,
			InstallmentNumber: p.installment,
			Amount:            billbook.M(p.amount, r.Currency()),
			Date:              date,
			Method:            p.method,
			Remark:            p.remark,
		})
	})
}
