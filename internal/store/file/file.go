// Package file implements the Record Store on a local delimited file.
// Absence of the file is self-healing: the first load creates it with
// header-only content.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store"
	"github.com/peter4652k/debttracker/internal/store/tabular"
)

type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.TableStore = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads and normalizes the full table. A missing file is created with
// the canonical header and treated as an empty table.
func (s *Store) Load(ctx context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.writeLocked(tabular.Header()); err != nil {
			return nil, fmt.Errorf("create table file: %w", err)
		}
		slog.InfoContext(ctx, "Created empty customer table", "path", s.path)
		return core.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read table file: %w", err)
	}

	table, err := tabular.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode table file: %w", err)
	}
	return table.Normalize(), nil
}

// Save rewrites the whole file with the table in canonical column order.
func (s *Store) Save(ctx context.Context, t core.Table) error {
	data, err := tabular.Encode(t)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeLocked(data); err != nil {
		return fmt.Errorf("write table file: %w", err)
	}
	slog.DebugContext(ctx, "Customer table saved", "path", s.path, "rows", len(t))
	return nil
}

func (s *Store) writeLocked(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0644)
}
