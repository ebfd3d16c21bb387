package redikv

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Sweepable is the minimal contract the sweeper needs from a store
type Sweepable interface {
	RemoveExpired() int
}

// Sweeper periodically drops expired entries so keys that are never read
// again do not stay in memory forever. Reads stay correct without it.
type Sweeper struct {
	store    Sweepable
	interval time.Duration
	logger   hclog.Logger
	metrics  *Metrics
}

func NewSweeper(store Sweepable, interval time.Duration, logger hclog.Logger, metrics *Metrics) *Sweeper {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger.Named("sweeper"),
		metrics:  metrics,
	}
}

// Runs the cleanup loop until ctx is cancelled
// Blocks, so callers typically start it in its own goroutine
func (sweeper *Sweeper) Start(ctx context.Context) {
	if sweeper.interval <= 0 {
		sweeper.logger.Debug("active expiration disabled")
		return
	}

	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweeper.RunOnce()
		case <-ctx.Done():
			sweeper.logger.Debug("sweeper stopped")
			return
		}
	}
}

// Performs a single cleanup cycle and returns the removed count
func (sweeper *Sweeper) RunOnce() int {
	removed := sweeper.store.RemoveExpired()
	if removed > 0 {
		sweeper.logger.Debug("removed expired keys", "count", removed)
	}
	sweeper.metrics.ObserveExpired(removed)
	return removed
}
