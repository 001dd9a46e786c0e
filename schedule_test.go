package billbook

import (
	"testing"
	"time"
)

// newActiveRecord creates an Active record for the standard test terms:
// principal 12000, 10% flat markup, 12 months, due day 15, entry 2025-01-15.
func newActiveRecord(t *testing.T) *FinancialRecord {
	t.Helper()
	r, err := NewRecord("REC-1", "CUST-1", Terms{
		Amount:            M(12000, "INR"),
		MarkupRate:        10,
		DurationMonths:    12,
		InstallmentDueDay: 15,
		ServiceCharge:     M(0, "INR"),
		EntryDate:         NewDate(2025, time.January, 15),
	})
	if err != nil {
		t.Fatalf("NewRecord() failed: %v", err)
	}
	if err := r.Approve(); err != nil {
		t.Fatalf("Approve() failed: %v", err)
	}
	if err := r.Activate(NewDate(2025, time.January, 15)); err != nil {
		t.Fatalf("Activate() failed: %v", err)
	}
	return r
}

func TestGenerateSchedule(t *testing.T) {
	r := newActiveRecord(t)

	if len(r.PaymentSchedule) != 12 {
		t.Fatalf("schedule has %d installments, want 12", len(r.PaymentSchedule))
	}

	// 12000 + 10% = 13200, split into 12 installments of 1100.
	sum := M(0, "INR")
	for k, inst := range r.PaymentSchedule {
		if inst.InstallmentNumber != k+1 {
			t.Errorf("installment %d has number %d", k, inst.InstallmentNumber)
		}
		if !inst.Amount.Equal(M(1100, "INR")) {
			t.Errorf("installment %d amount = %s, want 1100", inst.InstallmentNumber, inst.Amount.Decimal())
		}
		if inst.Status != InstallmentPending {
			t.Errorf("installment %d status = %s, want Pending", inst.InstallmentNumber, inst.Status)
		}
		if !inst.AmountPaid.IsZero() {
			t.Errorf("installment %d amountPaid = %s, want 0", inst.InstallmentNumber, inst.AmountPaid.Decimal())
		}
		want := NewDate(2025, time.January, 15).AddMonthsClipped(k+1, 15)
		if inst.DueDate != want {
			t.Errorf("installment %d due %s, want %s", inst.InstallmentNumber, inst.DueDate, want)
		}
		sum = sum.Add(inst.Amount)
	}
	if !sum.Equal(M(13200, "INR")) {
		t.Errorf("schedule sums to %s, want 13200", sum.Decimal())
	}
}

func TestGenerateScheduleResidual(t *testing.T) {
	// 10000 + 0% over 3 months: 3333.33 + 3333.33 + 3333.34.
	schedule, err := GenerateSchedule(Terms{
		Amount:         M(10000, "INR"),
		DurationMonths: 3,
		EntryDate:      NewDate(2025, time.June, 1),
	})
	if err != nil {
		t.Fatalf("GenerateSchedule() failed: %v", err)
	}
	sum := M(0, "INR")
	for _, inst := range schedule {
		sum = sum.Add(inst.Amount)
	}
	if !sum.Equal(M(10000, "INR")) {
		t.Errorf("schedule sums to %s, want exactly 10000", sum.Decimal())
	}
	if !schedule[2].Amount.Equal(M(3333.34, "INR")) {
		t.Errorf("last installment = %s, want 3333.34", schedule[2].Amount.Decimal())
	}
}

func TestGenerateScheduleDueDayClipping(t *testing.T) {
	schedule, err := GenerateSchedule(Terms{
		Amount:            M(6000, "INR"),
		DurationMonths:    4,
		InstallmentDueDay: 31,
		EntryDate:         NewDate(2025, time.January, 31),
	})
	if err != nil {
		t.Fatalf("GenerateSchedule() failed: %v", err)
	}
	wants := []Date{
		NewDate(2025, time.February, 28),
		NewDate(2025, time.March, 31),
		NewDate(2025, time.April, 30),
		NewDate(2025, time.May, 31),
	}
	for k, want := range wants {
		if got := schedule[k].DueDate; got != want {
			t.Errorf("installment %d due %s, want %s", k+1, got, want)
		}
	}
}

func TestGenerateScheduleInvalidTerms(t *testing.T) {
	testCases := []struct {
		name  string
		terms Terms
	}{
		{"zero principal", Terms{Amount: M(0, "INR"), DurationMonths: 12}},
		{"negative principal", Terms{Amount: M(-100, "INR"), DurationMonths: 12}},
		{"zero duration", Terms{Amount: M(1000, "INR"), DurationMonths: 0}},
		{"negative markup", Terms{Amount: M(1000, "INR"), MarkupRate: -1, DurationMonths: 12}},
		{"negative service charge", Terms{Amount: M(1000, "INR"), DurationMonths: 12, ServiceCharge: M(-5, "INR")}},
		{"due day out of range", Terms{Amount: M(1000, "INR"), DurationMonths: 12, InstallmentDueDay: 32}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := GenerateSchedule(tc.terms); err == nil {
				t.Error("GenerateSchedule() accepted invalid terms")
			}
		})
	}
}

func TestScheduleRows(t *testing.T) {
	r := newActiveRecord(t)
	rows := r.ScheduleRows()
	if len(rows) != 12 {
		t.Fatalf("got %d rows, want 12", len(rows))
	}

	if !rows[0].OpeningBalance.Equal(M(12000, "INR")) {
		t.Errorf("first opening balance = %s, want 12000", rows[0].OpeningBalance.Decimal())
	}
	for i, row := range rows {
		// installment = fee + principal on every row.
		if !row.FeePart.Add(row.PrincipalPart).Equal(row.Installment) {
			t.Errorf("row %d: fee %s + principal %s != installment %s",
				i+1, row.FeePart.Decimal(), row.PrincipalPart.Decimal(), row.Installment.Decimal())
		}
		if !row.OpeningBalance.Sub(row.PrincipalPart).Equal(row.ClosingBalance) {
			t.Errorf("row %d: closing balance does not follow from opening", i+1)
		}
		if i > 0 && !rows[i-1].ClosingBalance.Equal(row.OpeningBalance) {
			t.Errorf("row %d: opening %s != previous closing %s",
				i+1, row.OpeningBalance.Decimal(), rows[i-1].ClosingBalance.Decimal())
		}
	}
	if !rows[len(rows)-1].ClosingBalance.IsZero() {
		t.Errorf("final closing balance = %s, want 0", rows[len(rows)-1].ClosingBalance.Decimal())
	}

	// Flat markup: the fee pool (1200) is spread evenly, 100 per row.
	if !rows[0].FeePart.Equal(M(100, "INR")) {
		t.Errorf("fee part = %s, want 100", rows[0].FeePart.Decimal())
	}
}
