package billbook

import (
	"fmt"
)

// RecordStatus is the stored lifecycle status of a financial record.
//
// Overdue is intentionally absent: it is a derived view of Active (at least
// one installment past due and unpaid) recomputed on read, never stored.
type RecordStatus string

const (
	StatusPending  RecordStatus = "Pending"
	StatusApproved RecordStatus = "Approved"
	StatusActive   RecordStatus = "Active"
	StatusRejected RecordStatus = "Rejected"
	StatusSettled  RecordStatus = "Settled"
	// StatusOverdue only ever appears as the result of DerivedStatus.
	StatusOverdue RecordStatus = "Overdue"
)

// ParseRecordStatus parses a stored record status.
func ParseRecordStatus(s string) (RecordStatus, error) {
	switch RecordStatus(s) {
	case StatusPending, StatusApproved, StatusActive, StatusRejected, StatusSettled:
		return RecordStatus(s), nil
	default:
		return "", fmt.Errorf("unknown record status: %q", s)
	}
}

// InstallmentStatus is the status of one scheduled obligation.
type InstallmentStatus string

const (
	InstallmentPending       InstallmentStatus = "Pending"
	InstallmentPaid          InstallmentStatus = "Paid"
	InstallmentPartiallyPaid InstallmentStatus = "Partially Paid"
	InstallmentCancelled     InstallmentStatus = "Cancelled"
	// InstallmentOverdue only ever appears as the result of DeriveStatus.
	InstallmentOverdue InstallmentStatus = "Overdue"
)

// Installment is one scheduled obligation within a record's payment schedule.
//
// InstallmentNumber is 1-based, unique within a record, and immutable: an
// adjustment never renumbers existing installments, it only appends new ones
// after the highest existing number.
type Installment struct {
	InstallmentNumber int
	DueDate           Date
	Amount            Money
	Status            InstallmentStatus
	AmountPaid        Money
	PaymentDate       Date // zero until a payment is recorded
	PaymentMethod     string
	Remark            string
}

// Owed returns the remaining owed amount for the installment.
// Overpaid installments owe nothing (the excess stays on the installment).
func (i Installment) Owed() Money {
	owed := i.Amount.Sub(i.AmountPaid)
	if owed.IsNegative() {
		return M(0, i.Amount.Currency())
	}
	return owed
}

// DeriveStatus projects the effective status of the installment as of a date.
// An unpaid, non-cancelled installment whose due date has passed is Overdue.
// The projection is pure: calling it twice yields the same result and the
// stored status is never touched.
func DeriveStatus(i Installment, asOf Date) InstallmentStatus {
	switch i.Status {
	case InstallmentPaid, InstallmentCancelled:
		return i.Status
	}
	if i.DueDate.Before(asOf) {
		return InstallmentOverdue
	}
	return i.Status
}

// settled reports whether the installment is frozen against adjustment:
// already due before the given date, already fully paid, or cancelled.
func (i Installment) settled(asOf Date) bool {
	return i.Status == InstallmentPaid || i.Status == InstallmentCancelled || i.DueDate.Before(asOf)
}

// AdjustmentEntry is an immutable audit record of one mid-term revision.
// History entries are appended in date order and never deleted or reordered.
type AdjustmentEntry struct {
	Date               Date
	AdjustmentAmount   Money // delta between old and new total remaining
	OutstandingBefore  Money
	RevisedInstallment Money
	DurationMonths     int   // 0 when the duration was not revised
	ServiceCharge      Money // zero when no charge was added
}

// Settlement captures an early pre-closure of a record.
type Settlement struct {
	Date              Date
	OutstandingBefore Money
	ChargesPercent    Percent
	TotalPaid         Money
}

// PaymentReceipt records one applied payment. Receipts carry the caller
// supplied payment identity: re-submitting the same identity is rejected, so
// payment application is idempotent.
type PaymentReceipt struct {
	ID                string
	InstallmentNumber int
	Amount            Money
	Date              Date
	Method            string
}

// FinancialRecord is one loan/credit account for a customer. It exclusively
// owns its payment schedule, adjustment history and payment receipts; no
// other entity mutates them.
type FinancialRecord struct {
	ID         string
	CustomerID string

	// Terms. Amount is the principal, immutable once Active.
	Amount            Money
	MarkupRate        Percent // flat, percent over the full duration
	DurationMonths    int
	InstallmentAmount Money
	InstallmentDueDay int // 1-31, clipped to month length
	ServiceCharge     Money

	Status    RecordStatus
	Date      Date // creation
	EntryDate Date // disbursal; due dates count from here

	PaymentSchedule   []Installment
	AdjustmentHistory []AdjustmentEntry
	Payments          []PaymentReceipt
	Settlement        *Settlement
}

// Currency returns the record's currency, taken from its principal.
func (r *FinancialRecord) Currency() string { return r.Amount.Currency() }

// Progress returns the number of paid installments and the total number of
// non-cancelled installments, recomputed by scanning the schedule.
func (r *FinancialRecord) Progress() (paid, total int) {
	for _, inst := range r.PaymentSchedule {
		if inst.Status == InstallmentCancelled {
			continue
		}
		total++
		if inst.Status == InstallmentPaid {
			paid++
		}
	}
	return paid, total
}

// Outstanding returns the sum of remaining owed amounts over open
// installments as of the given date.
func (r *FinancialRecord) Outstanding(asOf Date) Money {
	outstanding := M(0, r.Currency())
	for _, inst := range r.PaymentSchedule {
		if inst.Status == InstallmentCancelled || inst.Status == InstallmentPaid {
			continue
		}
		outstanding = outstanding.Add(inst.Owed())
	}
	return outstanding
}

// OverdueInstallments returns the installments that are overdue as of a date.
// Pure query: the record is not modified.
func (r *FinancialRecord) OverdueInstallments(asOf Date) []Installment {
	var overdue []Installment
	for _, inst := range r.PaymentSchedule {
		if DeriveStatus(inst, asOf) == InstallmentOverdue {
			overdue = append(overdue, inst)
		}
	}
	return overdue
}

// DerivedStatus projects the record status as of a date. An Active record
// with at least one overdue installment reads as Overdue; the stored status
// is never changed.
func (r *FinancialRecord) DerivedStatus(asOf Date) RecordStatus {
	if r.Status == StatusActive && len(r.OverdueInstallments(asOf)) > 0 {
		return StatusOverdue
	}
	return r.Status
}

// Approve moves a Pending record to Approved.
func (r *FinancialRecord) Approve() error {
	if r.Status != StatusPending {
		return fmt.Errorf("approve record %s from %s: %w", r.ID, r.Status, ErrInvalidTransition)
	}
	r.Status = StatusApproved
	return nil
}

// Reject moves a Pending or Approved record to Rejected.
func (r *FinancialRecord) Reject() error {
	if r.Status != StatusPending && r.Status != StatusApproved {
		return fmt.Errorf("reject record %s from %s: %w", r.ID, r.Status, ErrInvalidTransition)
	}
	r.Status = StatusRejected
	return nil
}

// Activate moves an Approved record to Active and stamps the entry date the
// schedule was generated from.
func (r *FinancialRecord) Activate(entryDate Date) error {
	if r.Status != StatusApproved {
		return fmt.Errorf("activate record %s from %s: %w", r.ID, r.Status, ErrInvalidTransition)
	}
	if !entryDate.IsZero() {
		r.EntryDate = entryDate
	}
	r.Status = StatusActive
	return nil
}

// installment returns a pointer to the installment with the given number.
func (r *FinancialRecord) installment(number int) *Installment {
	for i := range r.PaymentSchedule {
		if r.PaymentSchedule[i].InstallmentNumber == number {
			return &r.PaymentSchedule[i]
		}
	}
	return nil
}

// hasPayment reports whether a payment identity was already applied.
func (r *FinancialRecord) hasPayment(id string) bool {
	for _, p := range r.Payments {
		if p.ID == id {
			return true
		}
	}
	return false
}
