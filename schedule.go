package billbook

import (
	"fmt"
)

// Terms are the inputs to schedule generation.
//
// The markup model is flat: MarkupRate percent of the principal is charged
// once over the full duration, it does not compound and does not reduce with
// the balance. Total payable = principal + principal*rate/100 + serviceCharge.
type Terms struct {
	Amount            Money   // principal, > 0
	MarkupRate        Percent // >= 0, flat over the full duration
	DurationMonths    int     // > 0
	InstallmentDueDay int     // 1-31, clipped to month length; 0 means the entry date's day
	ServiceCharge     Money
	EntryDate         Date
}

// Validate checks the terms. It fills the due day from the entry date and the
// entry date from today when unset.
func (t *Terms) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("principal %s must be positive: %w", t.Amount, ErrInvalidTerms)
	}
	if t.DurationMonths <= 0 {
		return fmt.Errorf("duration %d months must be positive: %w", t.DurationMonths, ErrInvalidTerms)
	}
	if t.MarkupRate < 0 {
		return fmt.Errorf("markup rate %s must not be negative: %w", t.MarkupRate, ErrInvalidTerms)
	}
	if t.ServiceCharge.IsNegative() {
		return fmt.Errorf("service charge %s must not be negative: %w", t.ServiceCharge, ErrInvalidTerms)
	}
	if t.InstallmentDueDay < 0 || t.InstallmentDueDay > 31 {
		return fmt.Errorf("installment due day %d out of range 1-31: %w", t.InstallmentDueDay, ErrInvalidTerms)
	}
	if t.EntryDate.IsZero() {
		t.EntryDate = Today()
	}
	if t.InstallmentDueDay == 0 {
		t.InstallmentDueDay = t.EntryDate.Day()
	}
	return nil
}

// Markup returns the flat markup amount for the terms.
func (t Terms) Markup() Money {
	return t.Amount.Percentage(t.MarkupRate.Decimal())
}

// TotalPayable returns principal + markup + service charge.
func (t Terms) TotalPayable() Money {
	return t.Amount.Add(t.Markup()).Add(t.ServiceCharge)
}

// GenerateSchedule produces the canonical installment schedule for the terms:
// DurationMonths Pending installments of the banker's-rounded even split of
// the total payable, with the last installment absorbing the rounding
// residual so the schedule sums back to the total exactly. The due date of
// installment k is the entry date advanced by k months with the due day
// clipped to the target month's length.
func GenerateSchedule(t Terms) ([]Installment, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	slot, last := t.TotalPayable().SplitEven(t.DurationMonths)
	zero := M(0, t.Amount.Currency())

	schedule := make([]Installment, 0, t.DurationMonths)
	for k := 1; k <= t.DurationMonths; k++ {
		amount := slot
		if k == t.DurationMonths {
			amount = last
		}
		schedule = append(schedule, Installment{
			InstallmentNumber: k,
			DueDate:           t.EntryDate.AddMonthsClipped(k, t.InstallmentDueDay),
			Amount:            amount,
			Status:            InstallmentPending,
			AmountPaid:        zero,
		})
	}
	return schedule, nil
}

// NewRecord creates a Pending record with its schedule generated from the
// terms. The schedule is authoritative from this point on.
func NewRecord(id, customerID string, t Terms) (*FinancialRecord, error) {
	schedule, err := GenerateSchedule(t)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	slot, _ := t.TotalPayable().SplitEven(t.DurationMonths)
	return &FinancialRecord{
		ID:                id,
		CustomerID:        customerID,
		Amount:            t.Amount,
		MarkupRate:        t.MarkupRate,
		DurationMonths:    t.DurationMonths,
		InstallmentAmount: slot,
		InstallmentDueDay: t.InstallmentDueDay,
		ServiceCharge:     t.ServiceCharge,
		Status:            StatusPending,
		Date:              Today(),
		EntryDate:         t.EntryDate,
		PaymentSchedule:   schedule,
	}, nil
}

// ScheduleRow is a read-only projection of one installment into a running
// balance ledger. The closing balance of row n equals the opening balance of
// row n+1, and the final row closes at zero.
type ScheduleRow struct {
	InstallmentNumber int
	DueDate           Date
	OpeningBalance    Money
	Installment       Money // due amount
	FeePart           Money
	PrincipalPart     Money
	ClosingBalance    Money
}

// ScheduleRows derives the running-balance projection from the authoritative
// payment schedule. It is re-derivable at any time and never stored state.
//
// The fee pool is everything charged on top of the principal — the sum of all
// non-cancelled installment amounts minus the principal — apportioned evenly
// across the rows (flat markup, so no reducing-balance split), with the last
// row absorbing the rounding residual. The principal part of each row is the
// remainder of its installment, so the rows always chain from the principal
// down to exactly zero.
func (r *FinancialRecord) ScheduleRows() []ScheduleRow {
	currency := r.Currency()
	total := M(0, currency)
	n := 0
	for _, inst := range r.PaymentSchedule {
		if inst.Status == InstallmentCancelled {
			continue
		}
		total = total.Add(inst.Amount)
		n++
	}
	if n == 0 {
		return nil
	}

	fees := total.Sub(r.Amount)
	feeSlot, feeLast := fees.SplitEven(n)

	rows := make([]ScheduleRow, 0, n)
	opening := r.Amount
	k := 0
	for _, inst := range r.PaymentSchedule {
		if inst.Status == InstallmentCancelled {
			continue
		}
		k++
		fee := feeSlot
		if k == n {
			fee = feeLast
		}
		principal := inst.Amount.Sub(fee)
		closing := opening.Sub(principal)
		rows = append(rows, ScheduleRow{
			InstallmentNumber: inst.InstallmentNumber,
			DueDate:           inst.DueDate,
			OpeningBalance:    opening,
			Installment:       inst.Amount,
			FeePart:           fee,
			PrincipalPart:     principal,
			ClosingBalance:    closing,
		})
		opening = closing
	}
	return rows
}
