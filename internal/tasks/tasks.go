// package tasks implements the background work behind the live views.
//
// A [Poller] is a cancellable scheduled task tied to a view's lifecycle:
// started when the view opens, stopped on teardown. The [PlayedWatcher]
// diffs successive requested-song snapshots to detect songs that were
// played, and [ScrollGuard] keeps infinite-scroll page loads from
// overlapping.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Poller runs fn once after an initial delay, then on every interval tick
// until stopped. An initial delay of 0 fires immediately on start.
//
// Ticks run sequentially on one goroutine; a slow cycle delays the next
// tick rather than overlapping it.
type Poller struct {
	name     string
	initial  time.Duration
	interval time.Duration
	fn       func(context.Context)
	logger   *log.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPoller creates a poller. fn must tolerate being called with a context
// that is cancelled mid-cycle.
func NewPoller(name string, initial, interval time.Duration, fn func(context.Context), logger *log.Logger) *Poller {
	return &Poller{
		name:     name,
		initial:  initial,
		interval: interval,
		fn:       fn,
		logger:   logger.With("poller", name),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop. Calling Start twice is a bug.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.loop(ctx)
}

// Stop cancels the loop and waits for the in-flight cycle to return.
// Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	if p.initial > 0 {
		select {
		case <-p.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(p.initial):
		}
	}

	p.fn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			p.logger.Debug("poller stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}
