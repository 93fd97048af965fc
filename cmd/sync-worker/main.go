package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/peter4652k/debttracker/internal/amqp"
	"github.com/peter4652k/debttracker/internal/backend"
	"github.com/peter4652k/debttracker/internal/config"
	applog "github.com/peter4652k/debttracker/internal/log"
	"github.com/peter4652k/debttracker/internal/store/github"
	"github.com/peter4652k/debttracker/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup()
	logger.Info("Starting debttracker sync-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.DataBackend == "github" {
		logger.Error("Sync worker is redundant when the github store is the primary backend")
		os.Exit(1)
	}

	// Local store: where the server persists the table.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger)
	local, err := factory.CreateStore(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize local store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if local.Cleanup != nil {
		defer local.Cleanup()
	}

	// Remote store: where the table gets pushed.
	remote, err := github.New(github.Config{
		Token:          cfg.GitHubToken,
		Owner:          cfg.GitHubOwner,
		Repo:           cfg.GitHubRepo,
		Path:           cfg.GitHubPath,
		Branch:         cfg.GitHubBranch,
		CommitterName:  cfg.GitHubCommitterName,
		CommitterEmail: cfg.GitHubCommitterEmail,
	})
	if err != nil {
		logger.Error("Failed to initialize github store", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncWorker := worker.NewSyncWorker(local.Store, remote)

	// Push once on startup so the remote catches up with anything missed
	// while the worker was down.
	if err := syncWorker.Push(ctx); err != nil {
		logger.Error("Startup table push failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeTableSync(gctx, func(msg *amqp.TableSyncMessage) error {
			return syncWorker.HandleSyncMessage(gctx, msg)
		})
	})
	g.Go(func() error {
		return syncWorker.RunPeriodic(gctx, cfg.SyncInterval)
	})

	logger.Info("Sync worker running",
		"queue", cfg.AMQPQueue,
		"repo", cfg.GitHubOwner+"/"+cfg.GitHubRepo,
		"interval", cfg.SyncInterval.String())

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Sync worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Sync worker stopped gracefully")
}
