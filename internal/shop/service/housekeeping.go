package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
)

// HousekeepingService sweeps expired rows out of the sessions table on a
// fixed interval. Redis expires its own keys, so the app only starts it for
// the sqlite session backend.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHousekeepingService returns a stopped sweeper. A non-positive interval
// means hourly.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{Store: st, Logger: logger, Interval: interval, Now: time.Now}
}

// Start sweeps once right away and then on every tick until Stop.
func (s *HousekeepingService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Go(func() {
		t := time.NewTicker(s.Interval)
		defer t.Stop()
		for {
			s.Cleanup(ctx)
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	})
	s.Logger.Info("session sweeper started", "interval", s.Interval)
}

// Stop cancels any sweep in flight and waits for the loop to exit. It is a
// no-op when Start was never called.
func (s *HousekeepingService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.cancel = nil
	s.Logger.Info("session sweeper stopped")
}

// Cleanup deletes sessions that expired before now and returns how many.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, s.Now())
	if err != nil {
		if ctx.Err() == nil {
			s.Logger.Error("failed to sweep expired sessions", "error", err)
		}
		return 0
	}
	if n > 0 {
		s.Logger.Info("expired sessions swept", "count", n)
	}
	return n
}
