package backend

import (
	"context"

	"github.com/peter4652k/debttracker/internal/store"
	"github.com/peter4652k/debttracker/internal/store/github"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Result contains the selected store and an optional cleanup function.
type Result struct {
	Store   store.TableStore
	Cleanup CleanupFunc
}

// Factory creates a Record Store from configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds everything needed to construct any of the stores.
type Config struct {
	Type Type

	// csv
	CSVPath string

	// sqlite
	SQLiteDBPath string

	// github
	GitHub github.Config
}

// Type selects the backing medium.
type Type string

const (
	CSVStore    Type = "csv"
	SQLiteStore Type = "sqlite"
	GitHubStore Type = "github"
	MemoryStore Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the store type is valid.
func (t Type) IsValid() bool {
	switch t {
	case CSVStore, SQLiteStore, GitHubStore, MemoryStore:
		return true
	default:
		return false
	}
}
