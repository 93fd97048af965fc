// Package ledger holds the business mutations over the customer table:
// creating customers, recording payments, and reconciling edited balances.
// Each mutation is one full load, one in-memory change, and one full save.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store"
)

// SyncPublisher notifies the sync pipeline after a successful local save.
// Publishing is best effort; a publish failure never fails the mutation.
type SyncPublisher interface {
	PublishTableSync(ctx context.Context, reason, customer string) error
}

type Ledger struct {
	store     store.TableStore
	publisher SyncPublisher
	now       func() time.Time
}

// New creates a ledger over the given store. publisher may be nil when no
// sync pipeline is configured.
func New(s store.TableStore, publisher SyncPublisher) *Ledger {
	return &Ledger{
		store:     s,
		publisher: publisher,
		now:       time.Now,
	}
}

// Load returns the current normalized table.
func (l *Ledger) Load(ctx context.Context) (core.Table, error) {
	return l.store.Load(ctx)
}

// AddCustomer appends a new record. The name is normalized before the
// duplicate check; validation failures leave the table untouched.
func (l *Ledger) AddCustomer(ctx context.Context, name string, amountOwed, paymentNow decimal.Decimal) (core.CustomerRecord, error) {
	key := core.NormalizeName(name)
	if key == "" {
		return core.CustomerRecord{}, core.ErrEmptyName
	}
	if amountOwed.Sign() < 0 || paymentNow.Sign() < 0 {
		return core.CustomerRecord{}, core.ErrNegativeAmount
	}

	table, err := l.store.Load(ctx)
	if err != nil {
		return core.CustomerRecord{}, fmt.Errorf("load table: %w", err)
	}
	if table.Contains(key) {
		return core.CustomerRecord{}, fmt.Errorf("%q: %w", key, core.ErrDuplicateCustomer)
	}

	rec := core.CustomerRecord{
		Date:        l.now(),
		Name:        key,
		AmountOwed:  amountOwed,
		BalancePaid: paymentNow,
	}
	rec.Recompute()

	table = append(table, rec)
	if err := l.store.Save(ctx, table); err != nil {
		return core.CustomerRecord{}, fmt.Errorf("save table: %w", err)
	}

	slog.InfoContext(ctx, "Customer added",
		"customer", rec.Name,
		"amount_owed", rec.AmountOwed.String(),
		"balance", rec.BalanceToday.String(),
		"status", string(rec.Status))
	l.publishSync(ctx, "add_customer", rec.Name)
	return rec, nil
}

// ApplyPayment accumulates a payment onto an existing record. When override
// is non-nil the balance is set verbatim (clipped at zero) instead of being
// recomputed; the accumulator fields are updated either way, so an override
// and the accumulator may drift apart until the next load recomputes.
func (l *Ledger) ApplyPayment(ctx context.Context, name string, paymentNow decimal.Decimal, override *decimal.Decimal) (core.CustomerRecord, error) {
	if paymentNow.Sign() < 0 {
		return core.CustomerRecord{}, core.ErrNegativeAmount
	}

	table, err := l.store.Load(ctx)
	if err != nil {
		return core.CustomerRecord{}, fmt.Errorf("load table: %w", err)
	}
	idx, ok := table.Find(name)
	if !ok {
		return core.CustomerRecord{}, fmt.Errorf("%q: %w", core.NormalizeName(name), core.ErrCustomerNotFound)
	}

	rec := &table[idx]
	rec.BalancePaid = rec.BalancePaid.Add(paymentNow)
	if override != nil {
		rec.BalanceToday = core.ClipNegative(*override)
	} else {
		rec.BalanceToday = core.OutstandingBalance(rec.AmountOwed, rec.BalancePaid)
	}
	rec.Status = core.DeriveStatus(rec.BalanceToday)
	rec.Date = l.now()

	if err := l.store.Save(ctx, table); err != nil {
		return core.CustomerRecord{}, fmt.Errorf("save table: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"customer", rec.Name,
		"payment", paymentNow.String(),
		"balance", rec.BalanceToday.String(),
		"manual_override", override != nil)
	l.publishSync(ctx, "apply_payment", rec.Name)
	return *rec, nil
}

// Reconcile persists an externally edited table: every balance is clipped
// at zero and every status rederived from the clipped balance. No check is
// made against the accumulator fields; the next load recomputes anyway.
func (l *Ledger) Reconcile(ctx context.Context, edited core.Table) (core.Table, error) {
	out := edited.Clone()
	for i := range out {
		out[i].BalanceToday = core.ClipNegative(out[i].BalanceToday)
		out[i].Status = core.DeriveStatus(out[i].BalanceToday)
	}
	if err := l.store.Save(ctx, out); err != nil {
		return nil, fmt.Errorf("save table: %w", err)
	}

	slog.InfoContext(ctx, "Table reconciled", "rows", len(out))
	l.publishSync(ctx, "reconcile", "")
	return out, nil
}

func (l *Ledger) publishSync(ctx context.Context, reason, customer string) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishTableSync(ctx, reason, customer); err != nil {
		slog.ErrorContext(ctx, "Failed to publish table sync message",
			"reason", reason, "customer", customer, "error", err)
	}
}
