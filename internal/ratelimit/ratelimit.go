// Package ratelimit provides per-key fixed-window request counting, used to
// gate the sensitive auth endpoints and the API as a whole. State lives
// in-process; for a multi-instance deployment the Limiter interface is the
// seam where a shared counter store would plug in.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter reports whether an event for the given key is allowed under the
// configured budget.
type Limiter interface {
	Allow(key string) bool
}

// Window is an in-memory fixed-window limiter: at most max events per key per
// window. It is safe for concurrent use. Counting across concurrent bursts at
// the exact boundary of the limit may overshoot slightly; that is accepted.
type Window struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	max     int
	now     func() time.Time
}

type entry struct {
	count int
	start time.Time
}

// NewWindow creates a limiter allowing max events per window for each key.
// It starts a background goroutine that drops windows long since elapsed.
func NewWindow(window time.Duration, max int) *Window {
	w := &Window{
		entries: make(map[string]*entry),
		window:  window,
		max:     max,
		now:     time.Now,
	}
	go w.cleanup()
	return w
}

// Allow consumes one slot for key. It returns false once max events have been
// counted in the current window; the count resets when the window elapses.
func (w *Window) Allow(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	e, ok := w.entries[key]
	if !ok || now.Sub(e.start) >= w.window {
		w.entries[key] = &entry{count: 1, start: now}
		return true
	}

	if e.count >= w.max {
		return false
	}
	e.count++
	return true
}

// cleanup periodically removes entries whose window elapsed, so idle keys do
// not accumulate forever.
func (w *Window) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		w.mu.Lock()
		now := w.now()
		for key, e := range w.entries {
			if now.Sub(e.start) >= w.window {
				delete(w.entries, key)
			}
		}
		w.mu.Unlock()
	}
}
