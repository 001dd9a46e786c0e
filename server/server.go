// Package server exposes the record book over HTTP. Handlers stay thin:
// they decode the request, run the corresponding record operation through
// the store's read-modify-write cycle, and encode the result back.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jls/billbook"
	"github.com/jls/billbook/store"
	"github.com/shopspring/decimal"
)

// Server serves the record book API on top of a store.
type Server struct {
	store *store.Store
}

func New(s *store.Store) *Server {
	return &Server{store: s}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/records", s.listRecordsHandler).Methods("GET")
	router.HandleFunc("/records", s.createRecordHandler).Methods("POST")
	router.HandleFunc("/records/{id}", s.getRecordHandler).Methods("GET")
	router.HandleFunc("/records/{id}/approve", s.approveHandler).Methods("POST")
	router.HandleFunc("/records/{id}/reject", s.rejectHandler).Methods("POST")
	router.HandleFunc("/records/{id}/activate", s.activateHandler).Methods("POST")
	router.HandleFunc("/records/{id}/payments", s.recordPaymentHandler).Methods("POST")
	router.HandleFunc("/records/{id}/adjustments", s.adjustHandler).Methods("POST")
	router.HandleFunc("/records/{id}/settle", s.settleHandler).Methods("POST")
	router.HandleFunc("/records/{id}/schedule", s.scheduleHandler).Methods("GET")

	router.HandleFunc("/partners/transactions", s.addPartnerTransactionHandler).Methods("POST")
	router.HandleFunc("/expenses", s.addExpenseHandler).Methods("POST")
	router.HandleFunc("/ledger", s.ledgerHandler).Methods("GET")

	return router
}

// writeError maps domain and store errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, billbook.ErrInstallmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrExists), errors.Is(err, store.ErrConflict),
		errors.Is(err, billbook.ErrDuplicatePayment), errors.Is(err, billbook.ErrAlreadySettled):
		status = http.StatusConflict
	case errors.Is(err, billbook.ErrInvalidTerms), errors.Is(err, billbook.ErrInvalidAdjustment),
		errors.Is(err, billbook.ErrNoOpenInstallments), errors.Is(err, billbook.ErrRecordNotActive),
		errors.Is(err, billbook.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseDate(s string) (billbook.Date, error) {
	if s == "" {
		return billbook.Date{}, nil
	}
	return billbook.ParseDate(s)
}

func (s *Server) createRecordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID                string          `json:"id"`
		CustomerID        string          `json:"customerId"`
		Currency          string          `json:"currency"`
		Amount            decimal.Decimal `json:"amount"`
		MarkupRate        float64         `json:"markupRate"`
		DurationMonths    int             `json:"durationMonths"`
		InstallmentDueDay int             `json:"installmentDueDay"`
		ServiceCharge     decimal.Decimal `json:"serviceCharge"`
		EntryDate         string          `json:"entryDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	record, err := billbook.NewRecord(req.ID, req.CustomerID, billbook.Terms{
		Amount:            billbook.M(req.Amount, req.Currency),
		MarkupRate:        billbook.Percent(req.MarkupRate),
		DurationMonths:    req.DurationMonths,
		InstallmentDueDay: req.InstallmentDueDay,
		ServiceCharge:     billbook.M(req.ServiceCharge, req.Currency),
		EntryDate:         entryDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.CreateRecord(record); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) getRecordHandler(w http.ResponseWriter, r *http.Request) {
	record, _, err := s.store.GetRecord(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) listRecordsHandler(w http.ResponseWriter, r *http.Request) {
	var records []*billbook.FinancialRecord
	var err error
	switch {
	case r.URL.Query().Get("status") != "":
		var status billbook.RecordStatus
		if status, err = billbook.ParseRecordStatus(r.URL.Query().Get("status")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err = s.store.ListRecordsByStatus(status)
	case r.URL.Query().Get("customer") != "":
		records, err = s.store.ListRecordsByCustomer(r.URL.Query().Get("customer"))
	default:
		records, err = s.store.ListRecords()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*billbook.FinancialRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// mutateHandler wraps the store's read-modify-write cycle for one record.
func (s *Server) mutateHandler(w http.ResponseWriter, r *http.Request, mutate func(*billbook.FinancialRecord) error) {
	record, err := s.store.Mutate(mux.Vars(r)["id"], mutate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) approveHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateHandler(w, r, func(rec *billbook.FinancialRecord) error { return rec.Approve() })
}

func (s *Server) rejectHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateHandler(w, r, func(rec *billbook.FinancialRecord) error { return rec.Reject() })
}

func (s *Server) activateHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryDate string `json:"entryDate"`
	}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mutateHandler(w, r, func(rec *billbook.FinancialRecord) error { return rec.Activate(entryDate) })
}

func (s *Server) recordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID                string          `json:"id"`
		InstallmentNumber int             `json:"installmentNumber"`
		Amount            decimal.Decimal `json:"amount"`
		Date              string          `json:"date"`
		Method            string          `json:"method"`
		Remark            string          `json:"remark"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	s.mutateHandler(w, r, func(rec *billbook.FinancialRecord) error {
		return rec.RecordPayment(billbook.Payment{
			ID:                req.ID,
			InstallmentNumber: req.InstallmentNumber,
			Amount:            billbook.M(req.Amount, rec.Currency()),
			Date:              date,
			Method:            req.Method,
			Remark:            req.Remark,
		})
	})
}

func (s *Server) adjustHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date              string          `json:"date"`
		AdditionalAmount  decimal.Decimal `json:"additionalAmount"`
		MarkupRate        float64         `json:"markupRate"`
		DurationMonths    int             `json:"durationMonths"`
		InstallmentDueDay int             `json:"installmentDueDay"`
		ServiceCharge     decimal.Decimal `json:"serviceCharge"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mutateHandler(w, r, func(rec *billbook.FinancialRecord) error {
		return billbook.Adjustment{
			Date:              date,
			AdditionalAmount:  billbook.M(req.AdditionalAmount, rec.Currency()),
			MarkupRate:        billbook.Percent(req.MarkupRate),
			DurationMonths:    req.DurationMonths,
			InstallmentDueDay: req.InstallmentDueDay,
			ServiceCharge:     billbook.M(req.ServiceCharge, rec.Currency()),
		}.Apply(rec)
	})
}

func (s *Server) settleHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date           string  `json:"date"`
		ChargesPercent float64 `json:"chargesPercent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mutateHandler(w, r, func(rec *billbook.FinancialRecord) error {
		return rec.Settle(date, billbook.Percent(req.ChargesPercent))
	})
}

func (s *Server) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	record, _, err := s.store.GetRecord(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.ScheduleRows())
}

func (s *Server) addPartnerTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string          `json:"date"`
		PartnerName string          `json:"partnerName"`
		Type        string          `json:"type"`
		Currency    string          `json:"currency"`
		Amount      decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Type != "investment" && req.Type != "withdrawal" {
		http.Error(w, "type must be investment or withdrawal", http.StatusBadRequest)
		return
	}
	tx, err := s.store.AddPartnerTransaction(billbook.PartnerTransaction{
		Date:        date,
		PartnerName: req.PartnerName,
		Type:        req.Type,
		Amount:      billbook.M(req.Amount, req.Currency),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) addExpenseHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string          `json:"date"`
		Narration string          `json:"narration"`
		Currency  string          `json:"currency"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := s.store.AddExpense(billbook.Expense{
		Date:      date,
		Narration: req.Narration,
		Amount:    billbook.M(req.Amount, req.Currency),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) ledgerHandler(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.CompanyEvents()
	if err != nil {
		writeError(w, err)
		return
	}
	if len(events) == 0 {
		writeJSON(w, http.StatusOK, []billbook.MonthlyLedger{})
		return
	}
	// Balances open at zero in the events' currency.
	ledgers := billbook.BuildMonthlyLedgers(events, billbook.M(0, events[0].Amount.Currency()))
	writeJSON(w, http.StatusOK, ledgers)
}
