package handlers

import (
	"sync"
	"time"
)

// viewDebouncer keeps repeated detail views of the same album, e.g. from
// page reloads, out of browse history. One entry per album per window.
type viewDebouncer struct {
	mu     sync.Mutex
	last   map[uint64]time.Time
	window time.Duration
}

func newViewDebouncer() *viewDebouncer {
	return &viewDebouncer{
		last:   make(map[uint64]time.Time),
		window: 5 * time.Minute,
	}
}

// ShouldRecord reports whether this view opens a fresh window for the
// album, and marks the album seen when it does.
func (v *viewDebouncer) ShouldRecord(albumID uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seen, ok := v.last[albumID]; ok && time.Since(seen) < v.window {
		return false
	}
	v.last[albumID] = time.Now()
	return true
}

// Clear forgets one album so its next view is recorded immediately.
func (v *viewDebouncer) Clear(albumID uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.last, albumID)
}
