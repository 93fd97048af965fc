// Package github implements the Record Store on a repository-hosted file
// behind the GitHub contents API. Reads return the decoded file plus its
// blob SHA; writes carry that SHA as an optimistic-concurrency precondition.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gh "github.com/google/go-github/v66/github"

	"github.com/peter4652k/debttracker/internal/core"
	"github.com/peter4652k/debttracker/internal/store"
	"github.com/peter4652k/debttracker/internal/store/tabular"
)

// Config locates the hosted table. Loaded once at startup and immutable
// afterwards; nothing in this package reads the environment.
type Config struct {
	Token          string
	Owner          string
	Repo           string
	Path           string
	Branch         string
	CommitterName  string
	CommitterEmail string
}

func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("github store: token is required")
	}
	if c.Owner == "" || c.Repo == "" {
		return errors.New("github store: owner and repo are required")
	}
	if c.Path == "" {
		return errors.New("github store: file path is required")
	}
	return nil
}

type Store struct {
	client *gh.Client
	cfg    Config
}

var _ store.TableStore = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		client: gh.NewClient(nil).WithAuthToken(cfg.Token),
		cfg:    cfg,
	}, nil
}

// Load fetches and normalizes the hosted table. A missing file, or any
// fetch failure, degrades to an empty table; the next save recreates it.
func (s *Store) Load(ctx context.Context) (core.Table, error) {
	data, _, err := s.fetch(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Remote table fetch failed, treating as empty",
			"repo", s.cfg.Owner+"/"+s.cfg.Repo, "path", s.cfg.Path, "error", err)
		return core.Table{}, nil
	}
	table, err := tabular.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode remote table: %w", err)
	}
	return table.Normalize(), nil
}

// Save rewrites the hosted file. The current blob SHA is fetched
// immediately before the write and supplied as the expected version; a
// mismatch surfaces core.ErrConflict and leaves the remote untouched.
func (s *Store) Save(ctx context.Context, t core.Table) error {
	data, err := tabular.Encode(t)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}

	_, sha, fetchErr := s.fetch(ctx)

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(fmt.Sprintf("Update customer balances (%d records)", len(t))),
		Content: data,
	}
	if s.cfg.Branch != "" {
		opts.Branch = gh.String(s.cfg.Branch)
	}
	if s.cfg.CommitterName != "" {
		opts.Committer = &gh.CommitAuthor{
			Name:  gh.String(s.cfg.CommitterName),
			Email: gh.String(s.cfg.CommitterEmail),
		}
	}

	if fetchErr != nil {
		// Absent object: the write is a creation.
		_, _, err = s.client.Repositories.CreateFile(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Path, opts)
	} else {
		opts.SHA = gh.String(sha)
		_, _, err = s.client.Repositories.UpdateFile(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Path, opts)
	}
	if err != nil {
		if isVersionMismatch(err) {
			return fmt.Errorf("save remote table: %w", core.ErrConflict)
		}
		return fmt.Errorf("save remote table: %w", err)
	}

	slog.InfoContext(ctx, "Remote table saved",
		"repo", s.cfg.Owner+"/"+s.cfg.Repo, "path", s.cfg.Path, "rows", len(t))
	return nil
}

// fetch returns the decoded file content and its blob SHA.
func (s *Store) fetch(ctx context.Context) ([]byte, string, error) {
	opts := &gh.RepositoryContentGetOptions{}
	if s.cfg.Branch != "" {
		opts.Ref = s.cfg.Branch
	}
	fc, _, _, err := s.client.Repositories.GetContents(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Path, opts)
	if err != nil {
		return nil, "", err
	}
	if fc == nil {
		return nil, "", errors.New("path is not a file")
	}
	content, err := fc.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("decode content: %w", err)
	}
	return []byte(content), fc.GetSHA(), nil
}

// isVersionMismatch reports whether the API rejected the write because the
// supplied SHA no longer matches the stored blob.
func isVersionMismatch(err error) bool {
	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return false
	}
	return ghErr.Response.StatusCode == http.StatusConflict ||
		ghErr.Response.StatusCode == http.StatusUnprocessableEntity
}
