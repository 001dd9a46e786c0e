package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/jls/billbook"
)

func newRecord(t *testing.T) *billbook.FinancialRecord {
	t.Helper()
	r, err := billbook.NewRecord("REC-1", "CUST-1", billbook.Terms{
		Amount:            billbook.M(12000, "INR"),
		MarkupRate:        10,
		DurationMonths:    12,
		InstallmentDueDay: 15,
		EntryDate:         billbook.NewDate(2025, time.January, 15),
	})
	if err != nil {
		t.Fatalf("NewRecord() failed: %v", err)
	}
	if err := r.Approve(); err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	if err := r.Activate(billbook.NewDate(2025, time.January, 15)); err != nil {
		t.Fatalf("Activate() failed: %v", err)
	}
	return r
}

func TestScheduleMarkdown(t *testing.T) {
	got := ScheduleMarkdown(newRecord(t))
	for _, want := range []string{
		"# Schedule for REC-1",
		"2025-02-15",
		"2026-01-15",
		"0 / 12",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestHistoryMarkdown(t *testing.T) {
	r := newRecord(t)
	if got := HistoryMarkdown(r); !strings.Contains(got, "No adjustments") {
		t.Errorf("empty history output:\n%s", got)
	}

	err := billbook.Adjustment{Date: billbook.NewDate(2025, time.February, 16), DurationMonths: 11}.Apply(r)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	got := HistoryMarkdown(r)
	if !strings.Contains(got, "2025-02-16") {
		t.Errorf("history output missing the adjustment date:\n%s", got)
	}
}

func TestDueMarkdown(t *testing.T) {
	r := newRecord(t)
	asOf := billbook.NewDate(2025, time.March, 20)

	got := DueMarkdown([]*billbook.FinancialRecord{r}, asOf)
	for _, want := range []string{"REC-1", "2025-02-15", "2025-03-15"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	none := DueMarkdown(nil, asOf)
	if !strings.Contains(none, "Nothing overdue") {
		t.Errorf("empty output:\n%s", none)
	}
}

func TestLedgerMarkdown(t *testing.T) {
	ledgers := billbook.BuildMonthlyLedgers([]billbook.LedgerEntry{
		{
			Date:        billbook.NewDate(2025, time.January, 5),
			Particulars: "Partner Asha investment",
			Type:        billbook.Credit,
			Category:    billbook.CategoryPartner,
			Amount:      billbook.M(50000, "INR"),
		},
	}, billbook.M(0, "INR"))
	if len(ledgers) != 1 {
		t.Fatalf("got %d ledgers, want 1", len(ledgers))
	}

	got := LedgerMarkdown(&ledgers[0])
	for _, want := range []string{"# Ledger 2025-01", "Opening Balance", "Closing Balance", "Partner Asha investment"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
