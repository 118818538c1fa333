package tasks

import (
	"time"

	"golang.org/x/time/rate"
)

// ScrollCooldown is how long after one page load a second may start.
const ScrollCooldown = 500 * time.Millisecond

// ScrollGuard gates infinite-scroll page loads so a second fetch cannot
// start inside the cooldown window of the first.
type ScrollGuard struct {
	limiter *rate.Limiter
}

// NewScrollGuard creates a guard with the given cooldown window.
func NewScrollGuard(cooldown time.Duration) *ScrollGuard {
	return &ScrollGuard{limiter: rate.NewLimiter(rate.Every(cooldown), 1)}
}

// Allow reports whether a page load may start now. A true result consumes
// the window; callers fetch only when Allow returns true.
func (g *ScrollGuard) Allow() bool {
	return g.limiter.Allow()
}
