package billbook

import (
	"fmt"
	"sort"
)

// EntryType is the sign of a ledger entry.
type EntryType string

const (
	Credit EntryType = "credit"
	Debit  EntryType = "debit"
)

// EntryCategory tags the origin of a ledger entry.
type EntryCategory string

const (
	CategoryRecord      EntryCategory = "record"      // principal disbursed
	CategoryInstallment EntryCategory = "installment" // installment collected
	CategoryPartner     EntryCategory = "partner"     // partner investment/withdrawal
	CategoryExpense     EntryCategory = "expense"
	CategoryFee         EntryCategory = "fee"
	CategorySettlement  EntryCategory = "settlement"
)

// ParseEntryCategory parses a ledger entry category.
func ParseEntryCategory(s string) (EntryCategory, error) {
	switch EntryCategory(s) {
	case CategoryRecord, CategoryInstallment, CategoryPartner, CategoryExpense, CategoryFee, CategorySettlement:
		return EntryCategory(s), nil
	default:
		return "", fmt.Errorf("unknown ledger category: %q", s)
	}
}

// LedgerEntry is a single dated signed amount. Entries reference a customer
// but are owned by the ledger builder's output, not by the source record.
type LedgerEntry struct {
	Date        Date
	Particulars string
	Type        EntryType
	Category    EntryCategory
	Amount      Money
	CustomerID  string
}

// Signed returns the entry amount with its sign: credits are positive,
// debits negative.
func (e LedgerEntry) Signed() Money {
	if e.Type == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// MonthlyLedger groups the entries of one calendar month, chaining the
// opening balance from the previous month's closing balance.
type MonthlyLedger struct {
	Month          MonthKey
	OpeningBalance Money
	Entries        []LedgerEntry
	ClosingBalance Money
}

// BuildMonthlyLedgers aggregates dated entries into consecutive monthly
// ledgers with running balances: the first month opens at priorClosing, each
// later month opens at the previous month's closing balance, and
// closing = opening + credits - debits. Months with no entries between the
// first and last entry are emitted with the balance carried forward
// unchanged, so consecutive ledgers always chain losslessly.
//
// The builder sorts its input itself: entries are stable-sorted by date, so
// within a day the caller's insertion order is preserved. The whole build is
// one sort and one fold, linear in the number of entries past the sort.
func BuildMonthlyLedgers(entries []LedgerEntry, priorClosing Money) []MonthlyLedger {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	first := MonthOf(sorted[0].Date)
	last := MonthOf(sorted[len(sorted)-1].Date)

	var ledgers []MonthlyLedger
	balance := priorClosing
	i := 0
	for month := first; !last.Before(month); month = month.Next() {
		ledger := MonthlyLedger{Month: month, OpeningBalance: balance}
		for i < len(sorted) && MonthOf(sorted[i].Date) == month {
			ledger.Entries = append(ledger.Entries, sorted[i])
			balance = balance.Add(sorted[i].Signed())
			i++
		}
		ledger.ClosingBalance = balance
		ledgers = append(ledgers, ledger)
	}
	return ledgers
}
