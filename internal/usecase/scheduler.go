package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"MediaMonitor/internal/ports"
)

// ScanScheduler wires the cron driver to the ingestion pipeline. A mutex
// serializes runs: the store has no locking of its own, so overlapping
// batches could duplicate rows or corrupt the dedup index.
type ScanScheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	opts     PipelineOptions
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewScanScheduler returns a helper to start/stop recurring scans.
func NewScanScheduler(driver ports.Scheduler, pipeline *Pipeline, opts PipelineOptions, logger *slog.Logger) *ScanScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanScheduler{
		driver:   driver,
		pipeline: pipeline,
		opts:     opts,
		logger:   logger,
	}
}

// Start registers the pipeline with the provided scheduler.
func (s *ScanScheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if !s.mu.TryLock() {
			s.logger.Warn("scan still running, skipping trigger", "trigger", trigger)
			return
		}
		defer s.mu.Unlock()

		if _, err := s.pipeline.Run(ctx, s.opts); err != nil {
			s.logger.Error("scheduled scan failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *ScanScheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
