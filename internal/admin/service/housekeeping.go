package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/admin/store"
	"github.com/aussiebroadwan/backoffice/pkg/metrics"
)

const sessionsJob = "expired_sessions"

// HousekeepingService periodically deletes expired sessions so the table
// does not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *metrics.JobMetrics
	Interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewHousekeepingService returns a stopped service. A non-positive interval
// falls back to one hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, m *metrics.JobMetrics, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Metrics:  m,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. It runs one cleanup immediately.
func (s *HousekeepingService) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
		s.Logger.Info("housekeeping service started", "interval", s.Interval)
	})
}

// Stop signals the worker and waits for any in-flight cleanup to finish.
// Stopping a service that never started is a no-op.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.started.Load() {
			<-s.doneCh
		}
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes expired sessions once and returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	start := time.Now()

	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx)
	s.Metrics.Observe(sessionsJob, time.Since(start), n, err)
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
		return 0
	}

	s.Logger.Debug("housekeeping cleanup completed", "sessions_deleted", n)
	return n
}
