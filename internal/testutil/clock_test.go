package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_Steps(t *testing.T) {
	clock := NewFixedClock(Epoch2024, time.Hour)

	assert.Equal(t, Epoch2024, clock.Now())
	assert.Equal(t, Epoch2024.Add(time.Hour), clock.Now())
	assert.Equal(t, Epoch2024.Add(2*time.Hour), clock.Now())
	assert.Equal(t, int64(3), clock.Calls())
}

func TestFixedClock_ZeroStep(t *testing.T) {
	clock := NewFixedClock(Epoch2024, 0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, Epoch2024, clock.Now())
	}
}

func TestFixedClock_Reset(t *testing.T) {
	clock := NewFixedClock(Epoch2024, time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Calls())
	assert.Equal(t, Epoch2024, clock.Now())
}

func TestFixedClock_Concurrent(t *testing.T) {
	clock := NewFixedClock(Epoch2024, time.Second)

	const goroutines = 50
	seen := make(chan time.Time, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		assert.False(t, unique[ts], "duplicate instant %v", ts)
		unique[ts] = true
	}
	assert.Len(t, unique, goroutines)
}

func TestMustTime(t *testing.T) {
	assert.Equal(t, Epoch2024, MustTime("2024-01-01T00:00:00Z"))
	assert.Equal(t, int64(-1500), MustTime("1969-12-31T23:59:59.9985Z").UnixMicro())
	assert.Panics(t, func() { MustTime("yesterday") })
}

func TestFixedTraceGenerator(t *testing.T) {
	assert.Equal(t, "test-trace-default", NewFixedTraceGenerator("").Generate())

	g := NewFixedTraceGenerator("trace-1")
	assert.Equal(t, "trace-1", g.Generate())
	assert.Equal(t, "trace-1", g.Generate())
}
