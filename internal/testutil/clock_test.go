package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_DoesNotMove(t *testing.T) {
	at := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	clock := NewFixedClock(at)

	assert.Equal(t, at, clock.Now())
	assert.Equal(t, at, clock.Now())
}

func TestFixedClock_AdvanceAndSet(t *testing.T) {
	at := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	clock := NewFixedClock(at)

	clock.Advance(24 * time.Hour)
	assert.Equal(t, at.AddDate(0, 0, 1), clock.Now())

	clock.Set(at)
	assert.Equal(t, at, clock.Now())
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	at := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	clock := NewFixedClock(at)
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, at.Add(numGoroutines*time.Second), clock.Now())
}
