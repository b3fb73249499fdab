package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window limiter: a map from key to
// {count, resetAt}, incremented per call and reset when the window elapses.
// It is not shared across instances; running more than one replica multiplies
// the effective limit accordingly.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewMemoryLimiter returns a MemoryLimiter whose expired windows are swept
// every sweepInterval; a non-positive interval disables the sweeper (tests).
func NewMemoryLimiter(sweepInterval time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go l.sweep(sweepInterval)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, windowDur time.Duration) (bool, int, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(windowDur)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= limit, w.count, nil
}

// Close stops the background sweeper.
func (l *MemoryLimiter) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

func (l *MemoryLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.sweepExpired(l.now())
		}
	}
}

func (l *MemoryLimiter) sweepExpired(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}
