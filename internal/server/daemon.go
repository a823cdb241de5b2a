package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/hr-bulk-import/internal/async"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
	"github.com/joseph-ayodele/hr-bulk-import/internal/ingest"
	"github.com/joseph-ayodele/hr-bulk-import/internal/metrics"
)

// ImportService is the health service name reported alongside the overall
// server status.
const ImportService = "hrbulkimport.Importer"

// HealthChecker is satisfied by *repository.Store.
type HealthChecker interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

// JobFinder looks up ledger entries by file checksum. Satisfied by
// repository.UploadJobRepository.
type JobFinder interface {
	FindByHash(ctx context.Context, fileHash string) (*entity.UploadJob, error)
}

// Daemon watches the inbox and queues every spreadsheet that lands there,
// once per distinct file content. It serves gRPC health and Prometheus
// metrics while running.
type Daemon struct {
	cfg    common.DaemonConfig
	queue  async.Queue
	db     HealthChecker
	jobs   JobFinder
	logger *slog.Logger
	health *health.Server

	// queued holds checksums handed to the queue by this process; the ledger
	// only learns a checksum once its job starts.
	queued map[string]string

	probeEvery time.Duration
}

func NewDaemon(cfg common.DaemonConfig, queue async.Queue, db HealthChecker, jobs JobFinder, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		cfg:        cfg,
		queue:      queue,
		db:         db,
		jobs:       jobs,
		logger:     logger,
		health:     health.NewServer(),
		queued:     map[string]string{},
		probeEvery: 15 * time.Second,
	}
}

// Health exposes the gRPC health server.
func (d *Daemon) Health() *health.Server { return d.health }

// Serve runs until ctx ends, then stops the listeners and drains the queue.
func (d *Daemon) Serve(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", d.cfg.GRPCAddr)
	if err != nil {
		d.logger.Error("failed to listen on address", "addr", d.cfg.GRPCAddr, "error", err)
		return err
	}
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, d.health)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	httpServer := &http.Server{Addr: d.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	paths, watchErrs, err := ingest.StartWatcher(watchCtx, ingest.WatchConfig{
		Roots:       []string{d.cfg.InboxDir},
		InitialScan: true,
		Debounce:    d.cfg.Debounce,
		Logger:      d.logger,
	})
	if err != nil {
		_ = grpcLis.Close()
		return err
	}

	d.probe(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.logger.Info("grpc health serving", "addr", grpcLis.Addr().String())
		return grpcServer.Serve(grpcLis)
	})
	g.Go(func() error {
		d.logger.Info("metrics serving", "addr", d.cfg.MetricsAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		d.Feed(gctx, paths)
		return nil
	})
	g.Go(func() error {
		for err := range watchErrs {
			d.logger.Warn("inbox watcher error", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		t := time.NewTicker(d.probeEvery)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
				d.probe(gctx)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		stopWatch()
		d.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return nil
	})

	err = g.Wait()
	drainCtx, cancel := context.WithTimeout(context.Background(), d.cfg.JobTimeout)
	defer cancel()
	d.queue.Shutdown(drainCtx)
	return err
}

// Feed enqueues every path received until paths closes or ctx ends. A file
// whose content was already queued by this process, or already has a live
// ledger entry, is skipped; soft-deleting that entry allows a re-import.
func (d *Daemon) Feed(ctx context.Context, paths <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-paths:
			if !ok {
				return
			}
			d.submit(ctx, p)
		}
	}
}

func (d *Daemon) submit(ctx context.Context, path string) {
	sum, err := ingest.Checksum(path)
	if err != nil {
		d.logger.Warn("failed to fingerprint spreadsheet", "path", path, "error", err)
		return
	}
	if jobID, ok := d.queued[sum]; ok {
		d.logger.Info("inbox.duplicate.skipped", "path", path, "job_id", jobID, "hash", sum)
		return
	}
	prev, err := d.jobs.FindByHash(ctx, sum)
	switch {
	case err == nil:
		d.queued[sum] = prev.ProcessID
		d.logger.Info("inbox.duplicate.skipped", "path", path, "job_id", prev.ProcessID, "status", prev.Status, "hash", sum)
		return
	case !errors.Is(err, common.ErrNotFound):
		d.logger.Error("failed to look up previous imports", "path", path, "error", err)
		return
	}

	job := async.Job{ID: uuid.NewString(), Path: path, SubmittedAt: time.Now()}
	if err := d.queue.Enqueue(ctx, job); err != nil {
		d.logger.Error("failed to queue spreadsheet", "path", path, "error", err)
		return
	}
	d.queued[sum] = job.ID
}

// probe reports NOT_SERVING while the database is unreachable.
func (d *Daemon) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := d.db.HealthCheck(ctx, 3*time.Second); err != nil {
		d.logger.Warn("database health probe failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	d.health.SetServingStatus("", status)
	d.health.SetServingStatus(ImportService, status)
}
