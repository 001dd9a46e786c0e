package renderer

import (
	"bytes"
	"fmt"

	"github.com/jls/billbook"
	md "github.com/nao1215/markdown"
)

// LedgerMarkdown renders one monthly ledger with its running balances.
func LedgerMarkdown(l *billbook.MonthlyLedger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Ledger %s", l.Month))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{
			"Date", "Particulars", "Category", "Amount", "Balance",
		},
		Rows: [][]string{
			{l.Month.First().String(), md.Bold("Opening Balance"), "", "", l.OpeningBalance.String()},
		},
	}
	balance := l.OpeningBalance
	for _, e := range l.Entries {
		balance = balance.Add(e.Signed())
		table.Rows = append(table.Rows, []string{
			e.Date.String(),
			e.Particulars,
			string(e.Category),
			e.Signed().SignedString(),
			balance.String(),
		})
	}
	table.Rows = append(table.Rows, []string{
		l.Month.Last().String(), md.Bold("Closing Balance"), "", "", l.ClosingBalance.String(),
	})
	doc.Table(table)

	return doc.String()
}

// LedgersMarkdown renders a run of consecutive monthly ledgers.
func LedgersMarkdown(ledgers []billbook.MonthlyLedger) string {
	var buf bytes.Buffer
	for i := range ledgers {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(LedgerMarkdown(&ledgers[i]))
	}
	return buf.String()
}
