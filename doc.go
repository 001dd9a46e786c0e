// Package billbook implements the installment schedule and ledger engine of
// a small-business bill book: receivables against customers who repay via
// fixed-or-adjustable installment plans.
//
// The core functionalities include:
//   - Schedule Generation: deterministic flat-markup installment schedules
//     with calendar-month due dates and exact, banker's-rounded amounts.
//   - Adjustments: mid-term revisions of the unpaid remainder of a schedule
//     (amount, duration, charges) with an append-only audit history.
//   - Payment Tracking: idempotent payment application with per-installment
//     and record-level status derivation, overdue as a pure projection.
//   - Ledger Building: aggregation of dated financial events into monthly
//     ledgers with chained opening/closing balances.
//   - Data Persistence: encoding and decoding of records and ledger events
//     to and from human-readable, version-controllable JSONL.
//
// The engine is a pure, synchronous computation layer: all operations are
// deterministic functions of their inputs plus the current record state.
// Each record is a unit of read-modify-write; conflicting concurrent
// revisions are detected at the storage boundary (see the store package),
// not here. This package serves as the foundational logic for the `bbk`
// command-line tool and the HTTP API.
package billbook
