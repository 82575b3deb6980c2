// file: internal/pacer/pacer_test.go

package pacer

import (
	"CDCGateway/internal/core/port"
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ port.Pacer = (*Interval)(nil)
	_ port.Pacer = Noop{}
)

// recordStarts 收集 Acquire 内部记录的开始时间
func recordStarts(p *Interval) func() []time.Time {
	var (
		mu     sync.Mutex
		starts []time.Time
	)
	p.onStart = func(ts time.Time) {
		mu.Lock()
		starts = append(starts, ts)
		mu.Unlock()
	}
	return func() []time.Time {
		mu.Lock()
		defer mu.Unlock()
		return append([]time.Time(nil), starts...)
	}
}

func TestInterval_ConcurrentCallersAreSpaced(t *testing.T) {
	const (
		interval = 100 * time.Millisecond
		callers  = 10
	)

	for round := 0; round < 3; round++ {
		p := New(interval)
		starts := recordStarts(p)

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, p.Acquire(context.Background()))
			}()
		}
		wg.Wait()

		times := starts()
		require.Len(t, times, callers)
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		for i := 1; i < len(times); i++ {
			gap := times[i].Sub(times[i-1])
			assert.GreaterOrEqual(t, gap, interval, "round %d gap %d was %v", round, i, gap)
		}
	}
}

func TestInterval_SequentialCallerWaitsFromLastStart(t *testing.T) {
	const interval = 60 * time.Millisecond
	p := New(interval)
	starts := recordStarts(p)

	require.NoError(t, p.Acquire(context.Background()))
	time.Sleep(interval / 3)
	require.NoError(t, p.Acquire(context.Background()))

	times := starts()
	require.Len(t, times, 2)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), interval)
}

func TestInterval_CancelledWaiterDoesNotTakeSlot(t *testing.T) {
	const interval = 80 * time.Millisecond
	p := New(interval)
	starts := recordStarts(p)

	require.NoError(t, p.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Acquire(ctx))

	require.NoError(t, p.Acquire(context.Background()))
	times := starts()
	require.Len(t, times, 2)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), interval)
}

func TestInterval_FirstAcquireIsImmediate(t *testing.T) {
	p := New(time.Second)
	start := time.Now()
	require.NoError(t, p.Acquire(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestInterval_ContextCancelled(t *testing.T) {
	p := New(time.Hour)
	require.NoError(t, p.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Acquire(ctx)
	assert.Error(t, err)
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(0).Interval())
	assert.Equal(t, DefaultInterval, New(-time.Second).Interval())
	assert.Equal(t, 2*time.Second, New(2*time.Second).Interval())
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Noop{}.Acquire(ctx), context.Canceled)
}
