package billbook

import (
	"fmt"
)

// Settle pre-closes an Active record: the outstanding remainder plus a
// percentage charge is collected in one settlement, every open installment
// becomes Cancelled, and the record moves to Settled. The settlement is
// recorded on the record for the audit trail.
//
// On any validation error the record is left unchanged.
func (r *FinancialRecord) Settle(on Date, charges Percent) error {
	if r.Status != StatusActive {
		return fmt.Errorf("settle record %s with status %s: %w", r.ID, r.Status, ErrRecordNotActive)
	}
	if charges < 0 {
		return fmt.Errorf("settle record %s: charges %s: %w", r.ID, charges, ErrInvalidTerms)
	}
	if on.IsZero() {
		on = Today()
	}

	outstanding := r.Outstanding(on)
	open := 0
	for _, inst := range r.PaymentSchedule {
		if inst.Status == InstallmentPending || inst.Status == InstallmentPartiallyPaid {
			open++
		}
	}
	if open == 0 {
		return fmt.Errorf("settle record %s on %s: %w", r.ID, on, ErrNoOpenInstallments)
	}

	total := outstanding.Add(outstanding.Percentage(charges.Decimal()))

	for i := range r.PaymentSchedule {
		inst := &r.PaymentSchedule[i]
		if inst.Status == InstallmentPending || inst.Status == InstallmentPartiallyPaid {
			inst.Status = InstallmentCancelled
		}
	}
	r.Status = StatusSettled
	r.Settlement = &Settlement{
		Date:              on,
		OutstandingBefore: outstanding,
		ChargesPercent:    charges,
		TotalPaid:         total,
	}
	return nil
}
