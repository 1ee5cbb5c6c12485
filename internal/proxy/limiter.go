package proxy

import (
	"sync"
	"time"
)

// sourceLimiter enforces a fixed requests-per-window ceiling per source.
// The counter increment and the window-boundary check happen under one
// lock, so they form a single logical operation.
type sourceLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*sourceWindow
}

type sourceWindow struct {
	start time.Time
	count int
}

func newSourceLimiter(limit int, window time.Duration) *sourceLimiter {
	return &sourceLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*sourceWindow),
	}
}

// Allow records one request from source and reports whether it fits the
// current window.
func (l *sourceLimiter) Allow(source string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w := l.windows[source]
	if w == nil || now.Sub(w.start) >= l.window {
		l.windows[source] = &sourceWindow{start: now, count: 1}
		return true
	}

	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}
