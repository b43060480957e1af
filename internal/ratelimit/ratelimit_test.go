package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(0.001, tt.burst, time.Minute)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow("client") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(0.001, 1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestKeyedRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	rl := New(1, 1, time.Hour)
	defer rl.Stop()

	current := time.Now()
	rl.now = func() time.Time { return current }

	rl.Allow("old")
	current = current.Add(30 * time.Minute)
	rl.Allow("fresh")
	current = current.Add(45 * time.Minute)

	rl.sweep()
	assert.Equal(t, 1, rl.Len())

	// A swept key starts over with a full bucket.
	assert.True(t, rl.Allow("old"))
}

func TestKeyedRateLimiter_Concurrent(t *testing.T) {
	rl := New(0.001, 10, time.Minute)
	defer rl.Stop()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		passed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, passed)
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := New(1, 1, time.Minute)
	rl.Stop()
	rl.Stop()
}
