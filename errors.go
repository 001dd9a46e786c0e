package billbook

import "errors"

// Validation failures surfaced to the caller. Operations never partially
// mutate a record: every error below is returned before any state changes.
var (
	// ErrInvalidTerms reports schedule terms that cannot produce a schedule
	// (non-positive principal or duration, negative markup).
	ErrInvalidTerms = errors.New("invalid terms")

	// ErrInvalidAdjustment reports revised terms that would produce a
	// non-positive outstanding amount or duration.
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrNoOpenInstallments reports an adjustment or settlement attempted
	// when every installment is already settled.
	ErrNoOpenInstallments = errors.New("no open installments")

	// ErrInstallmentNotFound reports a payment against an unknown
	// installment number.
	ErrInstallmentNotFound = errors.New("installment not found")

	// ErrAlreadySettled reports a payment against an installment that is
	// already paid or cancelled.
	ErrAlreadySettled = errors.New("installment already settled")

	// ErrDuplicatePayment reports a payment identity that was already
	// applied to the record.
	ErrDuplicatePayment = errors.New("duplicate payment")

	// ErrRecordNotActive reports an operation that requires an Active record.
	ErrRecordNotActive = errors.New("record is not active")

	// ErrInvalidTransition reports a lifecycle transition the record's
	// current status does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)
