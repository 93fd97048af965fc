package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/peter4652k/debttracker/internal/amqp"
	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store/memory"
)

// conflictingRemote fails the first n saves with core.ErrConflict.
type conflictingRemote struct {
	conflicts int
	saved     []core.Table
}

func (r *conflictingRemote) Save(_ context.Context, t core.Table) error {
	if r.conflicts > 0 {
		r.conflicts--
		return fmt.Errorf("save remote table: %w", core.ErrConflict)
	}
	r.saved = append(r.saved, t.Clone())
	return nil
}

func seededLocal() *memory.Store {
	owed, _ := decimal.NewFromString("1000")
	paid, _ := decimal.NewFromString("200")
	s := memory.New()
	s.Seed(core.Table{{Name: "Alice", AmountOwed: owed, BalancePaid: paid}})
	return s
}

func TestHandleSyncMessagePushesLocalTable(t *testing.T) {
	remote := &conflictingRemote{}
	w := NewSyncWorker(seededLocal(), remote)

	err := w.HandleSyncMessage(context.Background(), amqp.NewTableSyncMessage("add_customer", "Alice"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(remote.saved) != 1 || remote.saved[0][0].Name != "Alice" {
		t.Fatalf("remote should hold the local table, got %+v", remote.saved)
	}
}

func TestPushRetriesOnceOnConflict(t *testing.T) {
	remote := &conflictingRemote{conflicts: 1}
	w := NewSyncWorker(seededLocal(), remote)

	if err := w.Push(context.Background()); err != nil {
		t.Fatalf("push should succeed after one retry: %v", err)
	}
	if len(remote.saved) != 1 {
		t.Fatalf("expected exactly one successful save, got %d", len(remote.saved))
	}
}

func TestPushSurfacesSecondConflict(t *testing.T) {
	remote := &conflictingRemote{conflicts: 2}
	w := NewSyncWorker(seededLocal(), remote)

	err := w.Push(context.Background())
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict to surface, got %v", err)
	}
	if len(remote.saved) != 0 {
		t.Fatalf("no save should have succeeded")
	}
}
