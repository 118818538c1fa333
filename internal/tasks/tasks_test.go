package tasks

import (
	"context"
	"io"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/encorelive/encore/internal/shared"
)

func TestPoller(t *testing.T) {
	t.Run("Fires Immediately Without Initial Delay", func(t *testing.T) {
		var count atomic.Int32
		fired := make(chan struct{}, 1)

		p := NewPoller("test", 0, time.Hour, func(context.Context) {
			if count.Add(1) == 1 {
				fired <- struct{}{}
			}
		}, shared.NewLogger(io.Discard))

		p.Start(context.Background())
		defer p.Stop()

		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("expected immediate first fire")
		}
	})

	t.Run("Repeats On Interval", func(t *testing.T) {
		var count atomic.Int32
		done := make(chan struct{})

		p := NewPoller("test", 0, 10*time.Millisecond, func(context.Context) {
			if count.Add(1) == 3 {
				close(done)
			}
		}, shared.NewLogger(io.Discard))

		p.Start(context.Background())
		defer p.Stop()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 3 fires, got %d", count.Load())
		}
	})

	t.Run("Initial Delay Defers First Fire", func(t *testing.T) {
		var count atomic.Int32

		p := NewPoller("test", time.Hour, time.Hour, func(context.Context) {
			count.Add(1)
		}, shared.NewLogger(io.Discard))

		p.Start(context.Background())
		time.Sleep(20 * time.Millisecond)
		p.Stop()

		if count.Load() != 0 {
			t.Errorf("expected no fires inside the initial delay, got %d", count.Load())
		}
	})

	t.Run("Stop Halts The Loop", func(t *testing.T) {
		var count atomic.Int32

		p := NewPoller("test", 0, 5*time.Millisecond, func(context.Context) {
			count.Add(1)
		}, shared.NewLogger(io.Discard))

		p.Start(context.Background())
		time.Sleep(30 * time.Millisecond)
		p.Stop()

		settled := count.Load()
		time.Sleep(30 * time.Millisecond)

		if count.Load() != settled {
			t.Error("expected no fires after Stop")
		}
	})

	t.Run("Stop Twice Is Safe", func(t *testing.T) {
		p := NewPoller("test", 0, time.Hour, func(context.Context) {}, shared.NewLogger(io.Discard))
		p.Start(context.Background())
		p.Stop()
		p.Stop()
	})

	t.Run("Context Cancellation Halts The Loop", func(t *testing.T) {
		var count atomic.Int32
		ctx, cancel := context.WithCancel(context.Background())

		p := NewPoller("test", 0, 5*time.Millisecond, func(context.Context) {
			count.Add(1)
		}, shared.NewLogger(io.Discard))

		p.Start(ctx)
		time.Sleep(20 * time.Millisecond)
		cancel()
		time.Sleep(20 * time.Millisecond)

		settled := count.Load()
		time.Sleep(20 * time.Millisecond)
		if count.Load() != settled {
			t.Error("expected no fires after cancellation")
		}
	})
}

func TestPlayedWatcher(t *testing.T) {
	t.Run("First Snapshot Is Silent", func(t *testing.T) {
		w := NewPlayedWatcher()

		if played := w.Observe([]int{1, 2, 3}); played != nil {
			t.Errorf("expected silent priming, got %v", played)
		}
	})

	t.Run("Disappeared Ids Are Played", func(t *testing.T) {
		w := NewPlayedWatcher()
		w.Observe([]int{1, 2, 3})

		played := w.Observe([]int{2})
		sort.Ints(played)

		if len(played) != 2 || played[0] != 1 || played[1] != 3 {
			t.Errorf("expected [1 3], got %v", played)
		}
	})

	t.Run("New Ids Are Not Played", func(t *testing.T) {
		w := NewPlayedWatcher()
		w.Observe([]int{1})

		if played := w.Observe([]int{1, 2}); played != nil {
			t.Errorf("expected nothing played, got %v", played)
		}
	})

	t.Run("Reset Primes Again", func(t *testing.T) {
		w := NewPlayedWatcher()
		w.Observe([]int{1, 2})
		w.Reset()

		if played := w.Observe(nil); played != nil {
			t.Errorf("expected silent priming after reset, got %v", played)
		}
	})
}

func TestScrollGuard(t *testing.T) {
	t.Run("Blocks Inside Cooldown", func(t *testing.T) {
		g := NewScrollGuard(time.Hour)

		if !g.Allow() {
			t.Fatal("expected first load to be allowed")
		}
		if g.Allow() {
			t.Error("expected second load to be blocked inside the window")
		}
	})

	t.Run("Allows After Cooldown", func(t *testing.T) {
		g := NewScrollGuard(10 * time.Millisecond)

		g.Allow()
		time.Sleep(20 * time.Millisecond)

		if !g.Allow() {
			t.Error("expected load to be allowed after the window")
		}
	})
}
