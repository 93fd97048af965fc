package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the wire format for the DATE column.
const DateLayout = "2006-01-02 15:04:05"

// Status classifies a customer by outstanding balance.
type Status string

const (
	StatusCleared Status = "Cleared ✅"
	StatusPending Status = "Pending ⏳"
)

var (
	ErrEmptyName         = errors.New("empty customer name")
	ErrDuplicateCustomer = errors.New("customer already exists")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrNegativeAmount    = errors.New("amount must not be negative")

	// ErrConflict is returned by a remote store when the version token
	// supplied with a write no longer matches the stored object.
	ErrConflict = errors.New("remote table changed concurrently")
)

// CustomerRecord is one row of the customer table, keyed by normalized name.
type CustomerRecord struct {
	Date         time.Time
	Name         string
	AmountOwed   decimal.Decimal
	BalancePaid  decimal.Decimal
	BalanceToday decimal.Decimal
	Status       Status
}

// NormalizeName trims surrounding whitespace and title-cases the customer
// name. Names are compared only in this normalized form.
func NormalizeName(name string) string {
	// cases.Caser is stateful, so build one per call.
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(name)))
}

// DeriveStatus maps an outstanding balance to its status. Total over all
// values; negative balances count as cleared.
func DeriveStatus(balance decimal.Decimal) Status {
	if balance.Sign() <= 0 {
		return StatusCleared
	}
	return StatusPending
}

// OutstandingBalance computes max(owed - paid, 0).
func OutstandingBalance(owed, paid decimal.Decimal) decimal.Decimal {
	b := owed.Sub(paid)
	if b.Sign() < 0 {
		return decimal.Zero
	}
	return b
}

// ClipNegative replaces a negative amount with zero.
func ClipNegative(d decimal.Decimal) decimal.Decimal {
	if d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

// Recompute rederives the balance from the accumulator fields and refreshes
// the status. Any previously stored balance is discarded.
func (r *CustomerRecord) Recompute() {
	r.BalanceToday = OutstandingBalance(r.AmountOwed, r.BalancePaid)
	r.Status = DeriveStatus(r.BalanceToday)
}
