package billbook

import (
	"fmt"
)

// Payment is one payment submission against an installment.
//
// ID is the caller-supplied payment identity (receipt number, UUID). The
// record remembers every applied identity, so re-submitting the same payment
// is rejected with ErrDuplicatePayment and the state is unchanged.
type Payment struct {
	ID                string
	InstallmentNumber int
	Amount            Money
	Date              Date
	Method            string
	Remark            string
}

// RecordPayment applies a payment to the target installment and recomputes
// its status: Paid once the full amount is covered, Partially Paid while
// something remains owed. Paying more than the remainder is allowed — the
// excess stays on the installment as an extra payment — but an installment
// that is already Paid or Cancelled rejects further payments.
//
// On any validation error the record is left unchanged.
func (r *FinancialRecord) RecordPayment(p Payment) error {
	if r.Status != StatusActive {
		return fmt.Errorf("pay record %s with status %s: %w", r.ID, r.Status, ErrRecordNotActive)
	}
	if p.ID == "" {
		return fmt.Errorf("pay record %s: missing payment identity: %w", r.ID, ErrDuplicatePayment)
	}
	if r.hasPayment(p.ID) {
		return fmt.Errorf("pay record %s: payment %s: %w", r.ID, p.ID, ErrDuplicatePayment)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("pay record %s installment %d: amount %s must be positive: %w",
			r.ID, p.InstallmentNumber, p.Amount, ErrInvalidTerms)
	}

	inst := r.installment(p.InstallmentNumber)
	if inst == nil {
		return fmt.Errorf("pay record %s: installment %d: %w", r.ID, p.InstallmentNumber, ErrInstallmentNotFound)
	}
	if inst.Status == InstallmentPaid || inst.Status == InstallmentCancelled {
		return fmt.Errorf("pay record %s: installment %d is %s: %w", r.ID, p.InstallmentNumber, inst.Status, ErrAlreadySettled)
	}

	if p.Date.IsZero() {
		p.Date = Today()
	}

	inst.AmountPaid = inst.AmountPaid.Add(p.Amount)
	inst.PaymentDate = p.Date
	inst.PaymentMethod = p.Method
	if p.Remark != "" {
		inst.Remark = p.Remark
	}
	if inst.AmountPaid.GreaterThanOrEqual(inst.Amount) {
		inst.Status = InstallmentPaid
	} else {
		inst.Status = InstallmentPartiallyPaid
	}

	r.Payments = append(r.Payments, PaymentReceipt{
		ID:                p.ID,
		InstallmentNumber: p.InstallmentNumber,
		Amount:            p.Amount,
		Date:              p.Date,
		Method:            p.Method,
	})

	// A fully repaid schedule settles the record.
	if paid, total := r.Progress(); paid == total && total > 0 {
		r.Status = StatusSettled
	}
	return nil
}
