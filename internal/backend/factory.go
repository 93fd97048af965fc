package backend

import (
	"context"
	"fmt"
	"log/slog"

	csvstore "github.com/peter4652k/debttracker/internal/store/file"
	"github.com/peter4652k/debttracker/internal/store/github"
	"github.com/peter4652k/debttracker/internal/store/memory"
	"github.com/peter4652k/debttracker/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore.
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVStore:
		f.logger.Info("Initialized csv store", "path", config.CSVPath)
		return &Result{Store: csvstore.New(config.CSVPath)}, nil

	case SQLiteStore:
		s, err := sqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized sqlite store", "db_path", config.SQLiteDBPath)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case GitHubStore:
		s, err := github.New(config.GitHub)
		if err != nil {
			return nil, fmt.Errorf("initialize github store: %w", err)
		}
		f.logger.Info("Initialized github store",
			"repo", config.GitHub.Owner+"/"+config.GitHub.Repo,
			"path", config.GitHub.Path)
		return &Result{Store: s}, nil

	case MemoryStore:
		f.logger.Info("Initialized memory store")
		return &Result{Store: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
