// Package memory keeps the customer table in process memory. Used by tests
// and ephemeral runs where nothing needs to survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store"
)

type Store struct {
	mu    sync.Mutex
	table core.Table
}

var _ store.TableStore = (*Store)(nil)

func New() *Store {
	return &Store{table: core.Table{}}
}

// Seed replaces the stored table, bypassing normalization. Test helper.
func (s *Store) Seed(t core.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t.Clone()
}

func (s *Store) Load(_ context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Clone().Normalize(), nil
}

func (s *Store) Save(_ context.Context, t core.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t.Clone()
	return nil
}
