// Command importd watches an inbox directory and imports every employee
// spreadsheet dropped into it.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/async"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/normalize"
	"github.com/joseph-ayodele/hr-bulk-import/internal/events"
	"github.com/joseph-ayodele/hr-bulk-import/internal/repository"
	"github.com/joseph-ayodele/hr-bulk-import/internal/server"
	"github.com/joseph-ayodele/hr-bulk-import/internal/telemetry"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.ValidateDaemon(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if err := os.MkdirAll(cfg.Daemon.InboxDir, 0o755); err != nil {
		logger.Error("failed to create inbox", "dir", cfg.Daemon.InboxDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aliases, err := normalize.LoadAliases(cfg.Import.AliasesFile)
	if err != nil {
		logger.Error("failed to load aliases", "file", cfg.Import.AliasesFile, "error", err)
		os.Exit(2)
	}

	store, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(4)
	}
	defer server.CloseDB(store, logger)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	publisher, err := events.New(cfg.Events, logger)
	if err != nil {
		logger.Warn("job events disabled", "error", err)
		publisher = events.NopPublisher{}
	}
	defer func() { _ = publisher.Close() }()

	ledger := repository.NewUploadJobRepository(store, logger)
	importer := core.NewImporter(store, ledger,
		core.WithLogger(logger),
		core.WithWorkers(cfg.Import.Workers),
		core.WithBatchSize(cfg.Import.BatchUpdateSize),
		core.WithNormalizer(normalize.New(aliases)),
		core.WithPublisher(publisher),
		core.WithReportDir(cfg.Daemon.OutboxDir),
	)
	queue := async.NewImportQueue(importer, logger,
		async.WithWorkers(cfg.Daemon.JobWorkers),
		async.WithQueueSize(cfg.Daemon.QueueSize),
		async.WithJobTimeout(cfg.Daemon.JobTimeout),
	)

	logger.Info("importd starting", "inbox", cfg.Daemon.InboxDir, "grpc", cfg.Daemon.GRPCAddr, "metrics", cfg.Daemon.MetricsAddr)
	if err := server.NewDaemon(cfg.Daemon, queue, store, ledger, logger).Serve(ctx); err != nil {
		logger.Error("importd stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("importd stopped")
}
