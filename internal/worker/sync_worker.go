// Package worker pushes the locally persisted customer table to the remote
// store, driven by AMQP messages and a periodic full push.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/peter4652k/debttracker/internal/amqp"
	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store"
)

type SyncWorker struct {
	local  store.TableLoader
	remote store.TableSaver
}

func NewSyncWorker(local store.TableLoader, remote store.TableSaver) *SyncWorker {
	return &SyncWorker{
		local:  local,
		remote: remote,
	}
}

// HandleSyncMessage processes a single table sync message: the full local
// table is loaded and written to the remote store.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TableSyncMessage) error {
	slog.InfoContext(ctx, "Processing table sync message",
		"reason", msg.Reason,
		"customer", msg.Customer)
	return w.Push(ctx)
}

// Push writes the current local table to the remote store. A version-token
// conflict gets exactly one retry with a freshly loaded table; a second
// conflict is surfaced so the delivery is requeued.
func (w *SyncWorker) Push(ctx context.Context) error {
	table, err := w.local.Load(ctx)
	if err != nil {
		return fmt.Errorf("load local table: %w", err)
	}

	err = w.remote.Save(ctx, table)
	if err == nil {
		return nil
	}
	if !errors.Is(err, core.ErrConflict) {
		return fmt.Errorf("push table: %w", err)
	}

	slog.WarnContext(ctx, "Remote table changed concurrently, retrying once")
	table, err = w.local.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload local table: %w", err)
	}
	if err := w.remote.Save(ctx, table); err != nil {
		return fmt.Errorf("push table after conflict retry: %w", err)
	}
	return nil
}

// RunPeriodic pushes the full table on every tick until ctx ends. This
// backstops lost messages; a failed push waits for the next tick.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Push(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic table push failed", "error", err)
			}
		}
	}
}
