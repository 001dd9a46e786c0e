package billbook

import (
	"testing"
	"time"
)

func TestRecordEvents(t *testing.T) {
	r := newActiveRecord(t)
	payInstallments(t, r, 1, 2)
	if err := r.Settle(NewDate(2025, time.April, 1), 2); err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}

	events := RecordEvents(r)
	// Disbursement, two installment credits, settlement, settlement charges.
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}

	disb := events[0]
	if disb.Type != Debit || disb.Category != CategoryRecord || !disb.Amount.Equal(M(12000, "INR")) {
		t.Errorf("disbursement event = %+v", disb)
	}
	if disb.Date != NewDate(2025, time.January, 15) {
		t.Errorf("disbursement dated %s, want the entry date", disb.Date)
	}
	for _, ev := range events[1:3] {
		if ev.Type != Credit || ev.Category != CategoryInstallment || !ev.Amount.Equal(M(1100, "INR")) {
			t.Errorf("installment event = %+v", ev)
		}
	}
	settle, charge := events[3], events[4]
	if settle.Category != CategorySettlement || !settle.Amount.Equal(M(11000, "INR")) {
		t.Errorf("settlement event = %+v", settle)
	}
	if charge.Category != CategoryFee || !charge.Amount.Equal(M(220, "INR")) {
		t.Errorf("charge event = %+v", charge)
	}

	// Net cash movement: -12000 + 2200 + 11000 + 220.
	net := M(0, "INR")
	for _, ev := range events {
		net = net.Add(ev.Signed())
	}
	if !net.Equal(M(1420, "INR")) {
		t.Errorf("net cash = %s, want 1420", net.Decimal())
	}
}

func TestRecordEventsBeforeDisbursal(t *testing.T) {
	r, err := NewRecord("REC-9", "CUST-9", Terms{
		Amount:         M(1000, "INR"),
		DurationMonths: 2,
		EntryDate:      NewDate(2025, time.January, 1),
	})
	if err != nil {
		t.Fatalf("NewRecord() failed: %v", err)
	}
	if events := RecordEvents(r); events != nil {
		t.Errorf("pending record produced %d events", len(events))
	}
	if err := r.Reject(); err != nil {
		t.Fatalf("Reject() failed: %v", err)
	}
	if events := RecordEvents(r); events != nil {
		t.Errorf("rejected record produced %d events", len(events))
	}
}

func TestCompanyEventsIntoLedgers(t *testing.T) {
	r := newActiveRecord(t)
	payInstallments(t, r, 1) // credit 1100 on 2025-02-15

	partners := []PartnerTransaction{
		{ID: "PT-1", Date: NewDate(2025, time.January, 2), PartnerName: "Asha", Type: "investment", Amount: M(50000, "INR")},
		{ID: "PT-2", Date: NewDate(2025, time.February, 20), PartnerName: "Asha", Type: "withdrawal", Amount: M(2000, "INR")},
	}
	expenses := []Expense{
		{ID: "EX-1", Date: NewDate(2025, time.January, 20), Narration: "Office rent", Amount: M(3000, "INR")},
	}

	ledgers := BuildMonthlyLedgers(CompanyEvents([]*FinancialRecord{r}, partners, expenses), M(0, "INR"))
	if len(ledgers) != 2 {
		t.Fatalf("got %d ledgers, want 2", len(ledgers))
	}
	// January: +50000 investment, -12000 disbursement, -3000 rent.
	if !ledgers[0].ClosingBalance.Equal(M(35000, "INR")) {
		t.Errorf("january closes at %s, want 35000", ledgers[0].ClosingBalance.Decimal())
	}
	// February: +1100 installment, -2000 withdrawal.
	if !ledgers[1].ClosingBalance.Equal(M(34100, "INR")) {
		t.Errorf("february closes at %s, want 34100", ledgers[1].ClosingBalance.Decimal())
	}
}
