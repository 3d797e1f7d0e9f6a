package http

import (
	"sync"
	"time"
)

// JoinRateLimiter is a sliding-window limit on queue joins per client id.
type JoinRateLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewJoinRateLimiter(limit int, interval time.Duration) *JoinRateLimiter {
	return &JoinRateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *JoinRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[key]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false
	}

	rl.history[key] = append(fresh, now)
	rl.prune(windowStart)
	return true
}

// prune drops keys whose whole history fell out of the window so idle
// clients do not accumulate.
func (rl *JoinRateLimiter) prune(windowStart time.Time) {
	if len(rl.history) < 1024 {
		return
	}
	for k, ts := range rl.history {
		if len(ts) == 0 || !ts[len(ts)-1].After(windowStart) {
			delete(rl.history, k)
		}
	}
}
