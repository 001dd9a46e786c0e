package billbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The JSONL encoding is the record's portable form: one record (or ledger
// entry) per line, camelCase fields, amounts as bare decimals with the
// currency carried once per record. Adjustment history round-trips verbatim,
// which is all the compliance export needs — it is never parsed back into
// anything richer.

// MarshalJSON implements a field-ordered encoding of an installment.
func (i Installment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("installmentNumber", i.InstallmentNumber)
	w.Append("dueDate", i.DueDate)
	w.Append("amount", i.Amount.Decimal())
	w.Append("status", i.Status)
	w.Append("amountPaid", i.AmountPaid.Decimal())
	if !i.PaymentDate.IsZero() {
		w.Append("paymentDate", i.PaymentDate)
	}
	w.Optional("paymentMethod", i.PaymentMethod)
	w.Optional("remark", i.Remark)
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of an adjustment entry.
func (a AdjustmentEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", a.Date)
	w.Append("adjustmentAmount", a.AdjustmentAmount.Decimal())
	w.Append("outstandingBefore", a.OutstandingBefore.Decimal())
	w.Append("revisedInstallment", a.RevisedInstallment.Decimal())
	w.Optional("durationMonths", a.DurationMonths)
	if !a.ServiceCharge.IsZero() {
		w.Append("serviceCharge", a.ServiceCharge.Decimal())
	}
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of a settlement.
func (s Settlement) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", s.Date)
	w.Append("outstandingBefore", s.OutstandingBefore.Decimal())
	w.Append("chargesPercent", float64(s.ChargesPercent))
	w.Append("totalPaid", s.TotalPaid.Decimal())
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of a payment receipt.
func (p PaymentReceipt) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("installmentNumber", p.InstallmentNumber)
	w.Append("amount", p.Amount.Decimal())
	w.Append("date", p.Date)
	w.Optional("method", p.Method)
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of a record.
func (r *FinancialRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Optional("customerId", r.CustomerID)
	w.Append("currency", r.Currency())
	w.Append("amount", r.Amount.Decimal())
	w.Append("markupRate", float64(r.MarkupRate))
	w.Append("durationMonths", r.DurationMonths)
	w.Append("installmentAmount", r.InstallmentAmount.Decimal())
	w.Append("installmentDueDay", r.InstallmentDueDay)
	if !r.ServiceCharge.IsZero() {
		w.Append("serviceCharge", r.ServiceCharge.Decimal())
	}
	w.Append("status", r.Status)
	w.Append("date", r.Date)
	w.Append("entryDate", r.EntryDate)
	w.Append("paymentSchedule", r.PaymentSchedule)
	if len(r.AdjustmentHistory) > 0 {
		w.Append("adjustmentHistory", r.AdjustmentHistory)
	}
	if len(r.Payments) > 0 {
		w.Append("payments", r.Payments)
	}
	if r.Settlement != nil {
		w.Append("settlement", r.Settlement)
	}
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of a partner transaction.
func (t PartnerTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("partnerName", t.PartnerName)
	w.Append("type", t.Type)
	w.Append("currency", t.Amount.Currency())
	w.Append("amount", t.Amount.Decimal())
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of an expense.
func (e Expense) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("date", e.Date)
	w.Append("narration", e.Narration)
	w.Append("currency", e.Amount.Currency())
	w.Append("amount", e.Amount.Decimal())
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of a schedule row.
func (s ScheduleRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("installmentNumber", s.InstallmentNumber)
	w.Append("dueDate", s.DueDate)
	w.Append("openingBalance", s.OpeningBalance.Decimal())
	w.Append("installment", s.Installment.Decimal())
	w.Append("fee", s.FeePart.Decimal())
	w.Append("principal", s.PrincipalPart.Decimal())
	w.Append("closingBalance", s.ClosingBalance.Decimal())
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of a monthly ledger.
func (l MonthlyLedger) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("month", l.Month.String())
	w.Append("currency", l.OpeningBalance.Currency())
	w.Append("openingBalance", l.OpeningBalance.Decimal())
	w.Append("entries", l.Entries)
	w.Append("closingBalance", l.ClosingBalance.Decimal())
	return w.MarshalJSON()
}

// MarshalJSON implements a field-ordered encoding of a ledger entry.
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", e.Date)
	w.Optional("particulars", e.Particulars)
	w.Append("type", e.Type)
	w.Append("category", e.Category)
	w.Append("currency", e.Amount.Currency())
	w.Append("amount", e.Amount.Decimal())
	w.Optional("customerId", e.CustomerID)
	return w.MarshalJSON()
}

// EncodeRecord writes one record as a single JSONL line.
func EncodeRecord(w io.Writer, r *FinancialRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", r.ID, err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("writing record %s: %w", r.ID, err)
	}
	return nil
}

// EncodeRecords writes records as JSONL, one per line.
func EncodeRecords(w io.Writer, records []*FinancialRecord) error {
	for _, r := range records {
		if err := EncodeRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}

// specialized structs to decode json lines; amounts come in as bare decimals
// and are rehydrated into Money with the record's currency.

type jsonInstallment struct {
	InstallmentNumber int             `json:"installmentNumber"`
	DueDate           Date            `json:"dueDate"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	PaymentDate       Date            `json:"paymentDate"`
	PaymentMethod     string          `json:"paymentMethod"`
	Remark            string          `json:"remark"`
}

type jsonAdjustment struct {
	Date               Date            `json:"date"`
	AdjustmentAmount   decimal.Decimal `json:"adjustmentAmount"`
	OutstandingBefore  decimal.Decimal `json:"outstandingBefore"`
	RevisedInstallment decimal.Decimal `json:"revisedInstallment"`
	DurationMonths     int             `json:"durationMonths"`
	ServiceCharge      decimal.Decimal `json:"serviceCharge"`
}

type jsonSettlement struct {
	Date              Date            `json:"date"`
	OutstandingBefore decimal.Decimal `json:"outstandingBefore"`
	ChargesPercent    float64         `json:"chargesPercent"`
	TotalPaid         decimal.Decimal `json:"totalPaid"`
}

type jsonReceipt struct {
	ID                string          `json:"id"`
	InstallmentNumber int             `json:"installmentNumber"`
	Amount            decimal.Decimal `json:"amount"`
	Date              Date            `json:"date"`
	Method            string          `json:"method"`
}

type jsonRecord struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customerId"`
	Currency          string            `json:"currency"`
	Amount            decimal.Decimal   `json:"amount"`
	MarkupRate        float64           `json:"markupRate"`
	DurationMonths    int               `json:"durationMonths"`
	InstallmentAmount decimal.Decimal   `json:"installmentAmount"`
	InstallmentDueDay int               `json:"installmentDueDay"`
	ServiceCharge     decimal.Decimal   `json:"serviceCharge"`
	Status            string            `json:"status"`
	Date              Date              `json:"date"`
	EntryDate         Date              `json:"entryDate"`
	PaymentSchedule   []jsonInstallment `json:"paymentSchedule"`
	AdjustmentHistory []jsonAdjustment  `json:"adjustmentHistory"`
	Payments          []jsonReceipt     `json:"payments"`
	Settlement        *jsonSettlement   `json:"settlement"`
}

func (j jsonRecord) record() (*FinancialRecord, error) {
	status, err := ParseRecordStatus(j.Status)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", j.ID, err)
	}
	cur := j.Currency
	r := &FinancialRecord{
		ID:                j.ID,
		CustomerID:        j.CustomerID,
		Amount:            M(j.Amount, cur),
		MarkupRate:        Percent(j.MarkupRate),
		DurationMonths:    j.DurationMonths,
		InstallmentAmount: M(j.InstallmentAmount, cur),
		InstallmentDueDay: j.InstallmentDueDay,
		ServiceCharge:     M(j.ServiceCharge, cur),
		Status:            status,
		Date:              j.Date,
		EntryDate:         j.EntryDate,
	}
	for _, inst := range j.PaymentSchedule {
		r.PaymentSchedule = append(r.PaymentSchedule, Installment{
			InstallmentNumber: inst.InstallmentNumber,
			DueDate:           inst.DueDate,
			Amount:            M(inst.Amount, cur),
			Status:            InstallmentStatus(inst.Status),
			AmountPaid:        M(inst.AmountPaid, cur),
			PaymentDate:       inst.PaymentDate,
			PaymentMethod:     inst.PaymentMethod,
			Remark:            inst.Remark,
		})
	}
	for _, adj := range j.AdjustmentHistory {
		r.AdjustmentHistory = append(r.AdjustmentHistory, AdjustmentEntry{
			Date:               adj.Date,
			AdjustmentAmount:   M(adj.AdjustmentAmount, cur),
			OutstandingBefore:  M(adj.OutstandingBefore, cur),
			RevisedInstallment: M(adj.RevisedInstallment, cur),
			DurationMonths:     adj.DurationMonths,
			ServiceCharge:      M(adj.ServiceCharge, cur),
		})
	}
	for _, p := range j.Payments {
		r.Payments = append(r.Payments, PaymentReceipt{
			ID:                p.ID,
			InstallmentNumber: p.InstallmentNumber,
			Amount:            M(p.Amount, cur),
			Date:              p.Date,
			Method:            p.Method,
		})
	}
	if s := j.Settlement; s != nil {
		r.Settlement = &Settlement{
			Date:              s.Date,
			OutstandingBefore: M(s.OutstandingBefore, cur),
			ChargesPercent:    Percent(s.ChargesPercent),
			TotalPaid:         M(s.TotalPaid, cur),
		}
	}
	return r, nil
}

// DecodeRecord decodes one record from its JSON form.
func DecodeRecord(data []byte) (*FinancialRecord, error) {
	var j jsonRecord
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("could not decode record %q: %w", string(data), err)
	}
	return j.record()
}

// DecodeRecords reads records from a stream of JSONL data.
func DecodeRecords(r io.Reader) ([]*FinancialRecord, error) {
	var records []*FinancialRecord
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		rec, err := DecodeRecord(line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

type jsonLedgerEntry struct {
	Date        Date            `json:"date"`
	Particulars string          `json:"particulars"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	CustomerID  string          `json:"customerId"`
}

// EncodeLedgerEntries writes ledger entries as JSONL, one per line.
func EncodeLedgerEntries(w io.Writer, entries []LedgerEntry) error {
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding ledger entry on %s: %w", e.Date, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing ledger entry on %s: %w", e.Date, err)
		}
	}
	return nil
}

// DecodeLedgerEntries reads ledger entries from a stream of JSONL data.
func DecodeLedgerEntries(r io.Reader) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var j jsonLedgerEntry
		if err := json.Unmarshal(line, &j); err != nil {
			return nil, fmt.Errorf("could not decode ledger line %q: %w", string(line), err)
		}
		category, err := ParseEntryCategory(j.Category)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LedgerEntry{
			Date:        j.Date,
			Particulars: j.Particulars,
			Type:        EntryType(j.Type),
			Category:    category,
			Amount:      M(j.Amount, j.Currency),
			CustomerID:  j.CustomerID,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger entries: %w", err)
	}
	return entries, nil
}
