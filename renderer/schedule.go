package renderer

import (
	"bytes"
	"fmt"

	"github.com/jls/billbook"
	md "github.com/nao1215/markdown"
)

// ScheduleMarkdown renders the running-balance schedule of a record.
func ScheduleMarkdown(r *billbook.FinancialRecord) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Schedule for %s", r.ID))

	paid, total := r.Progress()
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Principal"),
			md.Bold(r.Amount.String()),
		},
		Rows: [][]string{
			{"Markup Rate", r.MarkupRate.String()},
			{"Status", string(r.Status)},
			{"Progress", fmt.Sprintf("%d / %d", paid, total)},
		},
	})

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"#", "Due Date", "Opening", "Installment", "Fee", "Principal", "Closing"},
		Rows:   [][]string{},
	}
	for _, row := range r.ScheduleRows() {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", row.InstallmentNumber),
			row.DueDate.String(),
			row.OpeningBalance.String(),
			row.Installment.String(),
			row.FeePart.String(),
			row.PrincipalPart.String(),
			row.ClosingBalance.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// HistoryMarkdown renders the adjustment history of a record.
func HistoryMarkdown(r *billbook.FinancialRecord) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Adjustment History for %s", r.ID))

	if len(r.AdjustmentHistory) == 0 {
		doc.PlainText("No adjustments recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Outstanding Before", "Adjustment", "Revised Installment", "Service Charge"},
		Rows:   [][]string{},
	}
	for _, entry := range r.AdjustmentHistory {
		table.Rows = append(table.Rows, []string{
			entry.Date.String(),
			entry.OutstandingBefore.String(),
			entry.AdjustmentAmount.SignedString(),
			entry.RevisedInstallment.String(),
			entry.ServiceCharge.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// DueMarkdown renders the installments overdue as of a date, one record
// section per record with something due.
func DueMarkdown(records []*billbook.FinancialRecord, asOf billbook.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Overdue as of %s", asOf))

	found := false
	for _, r := range records {
		overdue := r.OverdueInstallments(asOf)
		if len(overdue) == 0 {
			continue
		}
		found = true
		doc.H2(fmt.Sprintf("%s (%s)", r.ID, r.CustomerID))
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignRight,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"#", "Due Date", "Amount", "Owed"},
			Rows:   [][]string{},
		}
		for _, inst := range overdue {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", inst.InstallmentNumber),
				inst.DueDate.String(),
				inst.Amount.String(),
				inst.Owed().String(),
			})
		}
		doc.Table(table)
	}
	if !found {
		doc.PlainText("Nothing overdue.")
	}

	return doc.String()
}
