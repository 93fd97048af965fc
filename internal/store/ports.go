// Package store defines the Record Store port. A store produces a
// normalized, internally consistent customer table on every read and
// persists the full table on every write.
package store

import (
	"context"

	"github.com/peter4652k/debttracker/internal/core"
)

type (
	// TableLoader reads the full customer table from the backing medium.
	// An absent medium yields an empty table, never an error.
	TableLoader interface {
		Load(ctx context.Context) (core.Table, error)
	}

	// TableSaver rewrites the backing medium with the full table in
	// canonical column order.
	TableSaver interface {
		Save(ctx context.Context, t core.Table) error
	}

	// TableStore is the combined port the ledger depends on.
	TableStore interface {
		TableLoader
		TableSaver
	}
)
