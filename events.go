package billbook

import "fmt"

// PartnerTransaction is a partner investing into or withdrawing from the
// company's cash.
type PartnerTransaction struct {
	ID          string
	Date        Date
	PartnerName string
	Type        string // "investment" or "withdrawal"
	Amount      Money
}

// Expense is a dated company expense.
type Expense struct {
	ID        string
	Date      Date
	Narration string
	Amount    Money
}

// RecordEvents extracts the cash-affecting ledger entries of one record:
// the principal disbursed on the entry date, every payment collected, and
// the settlement amount split into its outstanding and charge parts.
func RecordEvents(r *FinancialRecord) []LedgerEntry {
	var events []LedgerEntry
	switch r.Status {
	case StatusPending, StatusApproved, StatusRejected:
		// Nothing disbursed yet (or ever).
		return nil
	}

	events = append(events, LedgerEntry{
		Date:        r.EntryDate,
		Particulars: fmt.Sprintf("Disbursement for record %s", r.ID),
		Type:        Debit,
		Category:    CategoryRecord,
		Amount:      r.Amount,
		CustomerID:  r.CustomerID,
	})

	for _, p := range r.Payments {
		events = append(events, LedgerEntry{
			Date:        p.Date,
			Particulars: fmt.Sprintf("Installment %d of record %s", p.InstallmentNumber, r.ID),
			Type:        Credit,
			Category:    CategoryInstallment,
			Amount:      p.Amount,
			CustomerID:  r.CustomerID,
		})
	}

	if s := r.Settlement; s != nil {
		events = append(events, LedgerEntry{
			Date:        s.Date,
			Particulars: fmt.Sprintf("Settlement of record %s", r.ID),
			Type:        Credit,
			Category:    CategorySettlement,
			Amount:      s.OutstandingBefore,
			CustomerID:  r.CustomerID,
		})
		if charge := s.TotalPaid.Sub(s.OutstandingBefore); charge.IsPositive() {
			events = append(events, LedgerEntry{
				Date:        s.Date,
				Particulars: fmt.Sprintf("Settlement charges of record %s", r.ID),
				Type:        Credit,
				Category:    CategoryFee,
				Amount:      charge,
				CustomerID:  r.CustomerID,
			})
		}
	}
	return events
}

// CompanyEvents folds records, partner transactions and expenses into one
// company-wide event stream for the ledger builder. Ordering does not
// matter: the builder sorts.
func CompanyEvents(records []*FinancialRecord, partners []PartnerTransaction, expenses []Expense) []LedgerEntry {
	var events []LedgerEntry
	for _, r := range records {
		events = append(events, RecordEvents(r)...)
	}
	for _, tx := range partners {
		typ := Credit
		if tx.Type == "withdrawal" {
			typ = Debit
		}
		events = append(events, LedgerEntry{
			Date:        tx.Date,
			Particulars: fmt.Sprintf("Partner %s %s", tx.PartnerName, tx.Type),
			Type:        typ,
			Category:    CategoryPartner,
			Amount:      tx.Amount,
		})
	}
	for _, e := range expenses {
		events = append(events, LedgerEntry{
			Date:        e.Date,
			Particulars: e.Narration,
			Type:        Debit,
			Category:    CategoryExpense,
			Amount:      e.Amount,
		})
	}
	return events
}
