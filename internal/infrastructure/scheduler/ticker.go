package scheduler

import (
	"context"
	"sync"
	"time"

	"FeedbackPulse/internal/ports"
)

// TickerScheduler fires the job at a fixed interval. The aggregation
// pipeline recomputes its own window per run, so a daily tick producing
// the same previous-week report is harmless overwrite, not duplication.
type TickerScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler with the given firing interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &TickerScheduler{interval: interval}
}

// Start begins ticking; the job also fires once immediately. Starting an
// already-started scheduler is a no-op.
func (t *TickerScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	t.mu.Lock()
	if t.stop != nil {
		t.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case tick := <-ticker.C:
				job(tick)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. Safe to call more than once.
func (t *TickerScheduler) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil || t.stopped {
		return nil
	}
	t.stopped = true
	close(t.stop)
	return nil
}
