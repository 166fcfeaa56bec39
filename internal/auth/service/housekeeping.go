package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/pantry/internal/auth/store"
)

// HousekeepingService periodically deletes expired refresh token records and
// blacklist entries. Every read path filters on expiry already, so a missed
// sweep only costs storage.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Timeout  time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// SweepReport counts the rows one sweep removed.
type SweepReport struct {
	RefreshTokens    int64
	BlacklistEntries int64
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	report, err := s.Sweep(ctx)
	if err != nil {
		s.Logger.Error("housekeeping cleanup failed", "error", err)
	}
	s.Logger.Info("housekeeping cleanup completed",
		"refresh_tokens_deleted", report.RefreshTokens,
		"blacklist_entries_deleted", report.BlacklistEntries,
	)
}

// Sweep deletes rows whose expiry is before now. Each deletion is
// independent; a failure in one does not stop the other.
func (s *HousekeepingService) Sweep(ctx context.Context) (SweepReport, error) {
	now := nowFunc(s.Now)()

	var (
		report SweepReport
		errs   []error
		err    error
	)

	report.RefreshTokens, err = s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}

	report.BlacklistEntries, err = s.Store.Blacklist().DeleteExpiredBlacklistEntries(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}

	return report, errors.Join(errs...)
}
