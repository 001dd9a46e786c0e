// Package store persists financial records, partner transactions and
// expenses in SQLite. Records are stored in their portable JSON form next to
// a few indexed columns; every record row carries a version that concurrent
// writers must present back, so lost updates are rejected instead of applied.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jls/billbook"
	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
	// ErrConflict is returned when the presented version no longer matches
	// the stored row: someone else updated the record in between.
	ErrConflict = errors.New("version conflict")
)

// Store manages the database connection and operations.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at the given path.
func Open(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the tables if they don't already exist. Amounts are
// stored as TEXT so no precision is lost.
func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		status TEXT NOT NULL,
		version INTEGER NOT NULL,
		body TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS partner_transactions (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		partner_name TEXT NOT NULL,
		type TEXT NOT NULL,
		currency TEXT NOT NULL,
		amount TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		narration TEXT NOT NULL,
		currency TEXT NOT NULL,
		amount TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateRecord inserts a new record at version 1.
func (s *Store) CreateRecord(r *billbook.FinancialRecord) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO records (id, customer_id, status, version, body) VALUES (?, ?, ?, 1, ?)`,
		r.ID, r.CustomerID, string(r.Status), string(body),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record %s: %w", r.ID, ErrExists)
		}
		return fmt.Errorf("failed to create record %s: %w", r.ID, err)
	}
	return nil
}

// GetRecord retrieves a record and its current version.
func (s *Store) GetRecord(id string) (*billbook.FinancialRecord, int64, error) {
	var body string
	var version int64
	row := s.db.QueryRow(`SELECT body, version FROM records WHERE id = ?`, id)
	if err := row.Scan(&body, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		return nil, 0, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	r, err := billbook.DecodeRecord([]byte(body))
	if err != nil {
		return nil, 0, err
	}
	return r, version, nil
}

// UpdateRecord writes a record back at version+1, but only if the stored row
// is still at the presented version. A concurrent writer that got there
// first makes this call fail with ErrConflict; the caller re-reads and
// re-applies its change.
func (s *Store) UpdateRecord(r *billbook.FinancialRecord, version int64) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
	}
	result, err := s.db.Exec(
		`UPDATE records SET customer_id = ?, status = ?, version = version + 1, body = ? WHERE id = ? AND version = ?`,
		r.CustomerID, string(r.Status), string(body), r.ID, version,
	)
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", r.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a stale version from a missing row.
		var exists int
		if err := s.db.QueryRow(`SELECT 1 FROM records WHERE id = ?`, r.ID).Scan(&exists); err != nil {
			return fmt.Errorf("record %s: %w", r.ID, ErrNotFound)
		}
		return fmt.Errorf("record %s at version %d: %w", r.ID, version, ErrConflict)
	}
	return nil
}

// Mutate runs a read-modify-write cycle on one record, retrying on version
// conflicts. The mutation must be re-applicable from a fresh read.
func (s *Store) Mutate(id string, mutate func(*billbook.FinancialRecord) error) (*billbook.FinancialRecord, error) {
	const maxRetries = 5
	for attempt := 0; attempt < maxRetries; attempt++ {
		r, version, err := s.GetRecord(id)
		if err != nil {
			return nil, err
		}
		if err := mutate(r); err != nil {
			return nil, err
		}
		err = s.UpdateRecord(r, version)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("record %s: too many retries: %w", id, ErrConflict)
}

// ListRecords retrieves all records, ordered by id.
func (s *Store) ListRecords() ([]*billbook.FinancialRecord, error) {
	return s.queryRecords(`SELECT body FROM records ORDER BY id`)
}

// ListRecordsByStatus retrieves the records with the given stored status.
func (s *Store) ListRecordsByStatus(status billbook.RecordStatus) ([]*billbook.FinancialRecord, error) {
	return s.queryRecords(`SELECT body FROM records WHERE status = ? ORDER BY id`, string(status))
}

// ListRecordsByCustomer retrieves a customer's records.
func (s *Store) ListRecordsByCustomer(customerID string) ([]*billbook.FinancialRecord, error) {
	return s.queryRecords(`SELECT body FROM records WHERE customer_id = ? ORDER BY id`, customerID)
}

func (s *Store) queryRecords(query string, args ...any) ([]*billbook.FinancialRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*billbook.FinancialRecord
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		r, err := billbook.DecodeRecord([]byte(body))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return records, nil
}

// AddPartnerTransaction inserts a partner transaction, generating an id when
// the caller left it empty.
func (s *Store) AddPartnerTransaction(tx billbook.PartnerTransaction) (billbook.PartnerTransaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO partner_transactions (id, date, partner_name, type, currency, amount) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Date.String(), tx.PartnerName, tx.Type, tx.Amount.Currency(), tx.Amount.Decimal().String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return tx, fmt.Errorf("partner transaction %s: %w", tx.ID, ErrExists)
		}
		return tx, fmt.Errorf("failed to create partner transaction: %w", err)
	}
	return tx, nil
}

// ListPartnerTransactions retrieves all partner transactions in date order.
func (s *Store) ListPartnerTransactions() ([]billbook.PartnerTransaction, error) {
	rows, err := s.db.Query(`SELECT id, date, partner_name, type, currency, amount FROM partner_transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner transactions: %w", err)
	}
	defer rows.Close()

	var txs []billbook.PartnerTransaction
	for rows.Next() {
		var tx billbook.PartnerTransaction
		var date, currency, amount string
		if err := rows.Scan(&tx.ID, &date, &tx.PartnerName, &tx.Type, &currency, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan partner transaction row: %w", err)
		}
		if tx.Date, err = billbook.ParseDate(date); err != nil {
			return nil, err
		}
		if tx.Amount, err = parseAmount(amount, currency); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return txs, nil
}

// AddExpense inserts an expense, generating an id when the caller left it
// empty.
func (s *Store) AddExpense(e billbook.Expense) (billbook.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO expenses (id, date, narration, currency, amount) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), e.Narration, e.Amount.Currency(), e.Amount.Decimal().String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return e, fmt.Errorf("expense %s: %w", e.ID, ErrExists)
		}
		return e, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

// ListExpenses retrieves all expenses in date order.
func (s *Store) ListExpenses() ([]billbook.Expense, error) {
	rows, err := s.db.Query(`SELECT id, date, narration, currency, amount FROM expenses ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []billbook.Expense
	for rows.Next() {
		var e billbook.Expense
		var date, currency, amount string
		if err := rows.Scan(&e.ID, &date, &e.Narration, &currency, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		if e.Date, err = billbook.ParseDate(date); err != nil {
			return nil, err
		}
		if e.Amount, err = parseAmount(amount, currency); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return expenses, nil
}

// CompanyEvents assembles the company-wide event stream from everything in
// the store.
func (s *Store) CompanyEvents() ([]billbook.LedgerEntry, error) {
	records, err := s.ListRecords()
	if err != nil {
		return nil, err
	}
	partners, err := s.ListPartnerTransactions()
	if err != nil {
		return nil, err
	}
	expenses, err := s.ListExpenses()
	if err != nil {
		return nil, err
	}
	return billbook.CompanyEvents(records, partners, expenses), nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func parseAmount(amount, currency string) (billbook.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return billbook.Money{}, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	return billbook.M(d, currency), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
