package tasks

// PlayedWatcher tracks successive snapshots of the user's still-pending
// song ids. An id present in the previous snapshot but missing from the
// next one means the musician played that song.
type PlayedWatcher struct {
	snapshot map[int]struct{}
	primed   bool
}

// NewPlayedWatcher creates an unprimed watcher.
func NewPlayedWatcher() *PlayedWatcher {
	return &PlayedWatcher{snapshot: make(map[int]struct{})}
}

// Observe records a snapshot and returns the ids that disappeared since
// the previous one. The first snapshot is stored silently and reports
// nothing.
func (w *PlayedWatcher) Observe(ids []int) []int {
	next := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}

	var played []int
	if w.primed {
		for id := range w.snapshot {
			if _, ok := next[id]; !ok {
				played = append(played, id)
			}
		}
	}

	w.snapshot = next
	w.primed = true
	return played
}

// Reset forgets the snapshot, so the next Observe primes silently again.
func (w *PlayedWatcher) Reset() {
	w.snapshot = make(map[int]struct{})
	w.primed = false
}
