package http

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinRateLimiter_Window(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewJoinRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("c1"))
	assert.True(t, rl.Allow("c1"))
	assert.False(t, rl.Allow("c1"))
	assert.True(t, rl.Allow("c2"), "limits are per key")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("c1"))
}

func TestJoinRateLimiter_PrunesIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewJoinRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 1100; i++ {
		assert.True(t, rl.Allow(fmt.Sprintf("idle-%d", i)))
	}
	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("active"))
	assert.Len(t, rl.history, 1101, "nothing is stale inside the window")

	now = now.Add(45 * time.Second)
	assert.True(t, rl.Allow("late"))
	assert.Len(t, rl.history, 2)
	assert.Contains(t, rl.history, "active")
	assert.Contains(t, rl.history, "late")
	assert.False(t, rl.Allow("active"), "pruning keeps live windows")
}

func TestJoinRateLimiter_SmallMapIsNotPruned(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewJoinRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("b"))
	assert.Len(t, rl.history, 2)
}
