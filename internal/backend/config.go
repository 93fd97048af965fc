package backend

import (
	"fmt"

	"github.com/peter4652k/debttracker/internal/config"
	"github.com/peter4652k/debttracker/internal/store/github"
)

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	storeType := Type(appConfig.DataBackend)
	if !storeType.IsValid() {
		return Config{}, fmt.Errorf("invalid store type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: storeType,

		CSVPath:      appConfig.CSVPath,
		SQLiteDBPath: appConfig.SQLiteDBPath,

		GitHub: github.Config{
			Token:          appConfig.GitHubToken,
			Owner:          appConfig.GitHubOwner,
			Repo:           appConfig.GitHubRepo,
			Path:           appConfig.GitHubPath,
			Branch:         appConfig.GitHubBranch,
			CommitterName:  appConfig.GitHubCommitterName,
			CommitterEmail: appConfig.GitHubCommitterEmail,
		},
	}, nil
}

// Validate validates the backend configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid store type: %s", c.Type)
	}

	switch c.Type {
	case CSVStore:
		if c.CSVPath == "" {
			return fmt.Errorf("CSV path is required for csv store")
		}
	case SQLiteStore:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite store")
		}
	case GitHubStore:
		if err := c.GitHub.Validate(); err != nil {
			return err
		}
	case MemoryStore:
		// Nothing to validate.
	}

	return nil
}
