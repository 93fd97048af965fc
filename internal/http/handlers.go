package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store/tabular"
)

type customerJSON struct {
	Date         string          `json:"date"`
	Name         string          `json:"name"`
	AmountOwed   decimal.Decimal `json:"amount_owed"`
	BalancePaid  decimal.Decimal `json:"balance_paid"`
	BalanceToday decimal.Decimal `json:"balance_as_of_today"`
	Status       string          `json:"status"`
}

func toCustomerJSON(r core.CustomerRecord) customerJSON {
	date := ""
	if !r.Date.IsZero() {
		date = r.Date.Format(core.DateLayout)
	}
	return customerJSON{
		Date:         date,
		Name:         r.Name,
		AmountOwed:   r.AmountOwed,
		BalancePaid:  r.BalancePaid,
		BalanceToday: r.BalanceToday,
		Status:       string(r.Status),
	}
}

func fromCustomerJSON(c customerJSON) core.CustomerRecord {
	date := time.Time{}
	if c.Date != "" {
		if t, err := time.Parse(core.DateLayout, c.Date); err == nil {
			date = t
		}
	}
	return core.CustomerRecord{
		Date:         date,
		Name:         c.Name,
		AmountOwed:   c.AmountOwed,
		BalancePaid:  c.BalancePaid,
		BalanceToday: c.BalanceToday,
		Status:       core.Status(c.Status),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	table, err := s.ledger.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]customerJSON, len(table))
	for i, rec := range table {
		out[i] = toCustomerJSON(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": out})
}

func (s *Server) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string          `json:"name"`
		AmountOwed decimal.Decimal `json:"amount_owed"`
		PaymentNow decimal.Decimal `json:"payment_now"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.ledger.AddCustomer(r.Context(), req.Name, req.AmountOwed, req.PaymentNow)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerJSON(rec))
}

func (s *Server) handleApplyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentNow    decimal.Decimal  `json:"payment_now"`
		ManualBalance *decimal.Decimal `json:"manual_balance,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.ledger.ApplyPayment(r.Context(), r.PathValue("name"), req.PaymentNow, req.ManualBalance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerJSON(rec))
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Customers []customerJSON `json:"customers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edited := make(core.Table, len(req.Customers))
	for i, c := range req.Customers {
		edited[i] = fromCustomerJSON(c)
	}

	out, err := s.ledger.Reconcile(r.Context(), edited)
	if err != nil {
		writeError(w, err)
		return
	}
	res := make([]customerJSON, len(out))
	for i, rec := range out {
		res[i] = toCustomerJSON(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": res})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	table, err := s.ledger.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := tabular.Encode(table)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="customers.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrNegativeAmount):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrDuplicateCustomer), errors.Is(err, core.ErrConflict):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrCustomerNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	default:
		writeErrorMessage(w, http.StatusBadGateway, err.Error())
	}
}
