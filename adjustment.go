package billbook

import (
	"fmt"
)

// Adjustment is a mid-term revision request for the unpaid remainder of a
// record's schedule. At least one of AdditionalAmount, DurationMonths or
// ServiceCharge must be set.
type Adjustment struct {
	Date Date
	// AdditionalAmount is extra principal advanced on top of the
	// outstanding remainder. May be zero.
	AdditionalAmount Money
	// MarkupRate is the flat rate applied to the re-amortized remainder
	// over the revised duration. Zero means no new markup.
	MarkupRate Percent
	// DurationMonths is the revised number of installments for the new
	// tail. Zero keeps the remaining open count.
	DurationMonths int
	// InstallmentDueDay revises the due day. Zero keeps the record's.
	InstallmentDueDay int
	// ServiceCharge is an added charge folded into the new tail. May be zero.
	ServiceCharge Money
}

// Apply applies the revision to the record without discarding history.
//
// The schedule is partitioned into settled installments (due before the
// adjustment date, paid, or cancelled) and open ones. The open tail is
// replaced by a freshly amortized schedule over the outstanding remainder
// plus any additional amount, markup and service charge; settled installments
// are carried over untouched, keeping their original numbers, and the new
// tail is numbered after the highest carried number. One immutable audit
// entry is appended per call.
//
// On any validation error the record is left unchanged.
func (a Adjustment) Apply(r *FinancialRecord) error {
	if r.Status != StatusActive {
		return fmt.Errorf("adjust record %s with status %s: %w", r.ID, r.Status, ErrRecordNotActive)
	}
	if a.Date.IsZero() {
		a.Date = Today()
	}
	if a.AdditionalAmount.IsZero() && a.DurationMonths == 0 && a.ServiceCharge.IsZero() {
		return fmt.Errorf("adjust record %s: nothing to revise: %w", r.ID, ErrInvalidAdjustment)
	}
	if a.AdditionalAmount.IsNegative() || a.ServiceCharge.IsNegative() || a.MarkupRate < 0 {
		return fmt.Errorf("adjust record %s: negative revision values: %w", r.ID, ErrInvalidAdjustment)
	}

	currency := r.Currency()
	var settled, open []Installment
	for _, inst := range r.PaymentSchedule {
		if inst.settled(a.Date) {
			settled = append(settled, inst)
		} else {
			open = append(open, inst)
		}
	}
	if len(open) == 0 {
		return fmt.Errorf("adjust record %s on %s: %w", r.ID, a.Date, ErrNoOpenInstallments)
	}

	outstandingBefore := M(0, currency)
	anchor := open[0].DueDate // open due dates are all on or after a.Date
	for _, inst := range open {
		outstandingBefore = outstandingBefore.Add(inst.Owed())
		if inst.DueDate.Before(anchor) {
			anchor = inst.DueDate
		}
	}

	duration := a.DurationMonths
	if duration == 0 {
		duration = len(open)
	}
	if duration <= 0 {
		return fmt.Errorf("adjust record %s: duration %d: %w", r.ID, duration, ErrInvalidAdjustment)
	}

	base := outstandingBefore.Add(a.AdditionalAmount)
	if !base.IsPositive() {
		return fmt.Errorf("adjust record %s: outstanding %s not positive: %w", r.ID, base, ErrInvalidAdjustment)
	}

	dueDay := a.InstallmentDueDay
	if dueDay == 0 {
		dueDay = r.InstallmentDueDay
	}

	total := base.Add(base.Percentage(a.MarkupRate.Decimal())).Add(a.ServiceCharge)
	slot, last := total.SplitEven(duration)

	// The new tail keeps the cadence of the replaced one: its first due date
	// is the earliest open due date, not one month after the adjustment.
	// Numbering continues after the highest carried-over number; the replaced
	// open installments no longer exist, so uniqueness holds.
	next := 0
	for _, inst := range settled {
		if inst.InstallmentNumber > next {
			next = inst.InstallmentNumber
		}
	}
	zero := M(0, currency)
	tail := make([]Installment, 0, duration)
	for k := 1; k <= duration; k++ {
		amount := slot
		if k == duration {
			amount = last
		}
		tail = append(tail, Installment{
			InstallmentNumber: next + k,
			DueDate:           anchor.AddMonthsClipped(k-1, dueDay),
			Amount:            amount,
			Status:            InstallmentPending,
			AmountPaid:        zero,
		})
	}

	r.PaymentSchedule = append(settled, tail...)
	r.InstallmentAmount = slot
	r.AdjustmentHistory = append(r.AdjustmentHistory, AdjustmentEntry{
		Date:               a.Date,
		AdjustmentAmount:   total.Sub(outstandingBefore),
		OutstandingBefore:  outstandingBefore,
		RevisedInstallment: slot,
		DurationMonths:     a.DurationMonths,
		ServiceCharge:      a.ServiceCharge,
	})
	return nil
}
