// Package worker runs background maintenance jobs.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/config"
	"github.com/spec-kit/helpdesk-core/internal/service"
)

// RefreshWorker recomputes the dashboard metrics snapshot on a schedule so
// dashboard reads stay cheap even when ticket writes are frequent.
type RefreshWorker struct {
	reports *service.ReportService
	cfg     config.WorkerConfig
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewRefreshWorker constructs the worker.
func NewRefreshWorker(reports *service.ReportService, cfg config.WorkerConfig, logger *zap.Logger) *RefreshWorker {
	return &RefreshWorker{
		reports: reports,
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start schedules the refresh job and runs one refresh immediately.
func (w *RefreshWorker) Start() error {
	if _, err := w.cron.AddFunc(w.cfg.RefreshCron, w.refresh); err != nil {
		return err
	}
	w.cron.Start()
	go w.refresh()
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (w *RefreshWorker) Stop() {
	ctx := w.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		w.logger.Warn("dashboard refresh worker stop timed out")
	}
}

func (w *RefreshWorker) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	started := time.Now()
	if _, err := w.reports.RefreshDashboard(ctx); err != nil {
		w.logger.Error("dashboard refresh failed", zap.Error(err))
		return
	}
	w.logger.Info("dashboard refreshed", zap.Duration("took", time.Since(started)))
}
