package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config is loaded once at startup and immutable thereafter. Remote
// credentials live here rather than in package globals.
type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Local media
	CSVPath      string
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// GitHub remote store
	GitHubToken          string
	GitHubOwner          string
	GitHubRepo           string
	GitHubPath           string
	GitHubBranch         string
	GitHubCommitterName  string
	GitHubCommitterEmail string

	// Worker
	SyncInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "csv"),

		CSVPath:      getEnv("CSV_PATH", "./data/customers.csv"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/debttracker.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "debttracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_table"),

		GitHubToken:          getEnv("GITHUB_TOKEN", ""),
		GitHubOwner:          getEnv("GITHUB_OWNER", ""),
		GitHubRepo:           getEnv("GITHUB_REPO", ""),
		GitHubPath:           getEnv("GITHUB_PATH", "customers.csv"),
		GitHubBranch:         getEnv("GITHUB_BRANCH", ""),
		GitHubCommitterName:  getEnv("GITHUB_COMMITTER_NAME", ""),
		GitHubCommitterEmail: getEnv("GITHUB_COMMITTER_EMAIL", ""),

		SyncInterval: getEnvDuration("SYNC_INTERVAL", 5*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"csv", "sqlite", "github", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "csv" && c.CSVPath == "" {
		errors = append(errors, "CSV path cannot be empty when using csv backend")
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate GitHub configuration if the remote store is in play
	if c.DataBackend == "github" || c.GitHubSyncEnabled() {
		if c.GitHubToken == "" {
			errors = append(errors, "GitHub token is required for the github store")
		}
		if c.GitHubOwner == "" || c.GitHubRepo == "" {
			errors = append(errors, "GitHub owner and repo are required for the github store")
		}
		if c.GitHubPath == "" {
			errors = append(errors, "GitHub file path is required for the github store")
		}
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// GitHubSyncEnabled reports whether local saves should be mirrored to the
// GitHub store through the sync worker.
func (c *Config) GitHubSyncEnabled() bool {
	return c.DataBackend != "github" && c.AMQPURL != "" && c.GitHubOwner != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
