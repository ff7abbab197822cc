package taskqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noop(context.Context) error { return nil }

func TestQueueWaveCounts(t *testing.T) {
	cases := []struct {
		capacity int
		tasks    int
	}{
		{capacity: 1, tasks: 5},
		{capacity: 3, tasks: 10},
		{capacity: 4, tasks: 8},
		{capacity: 10, tasks: 7},
		{capacity: 10, tasks: 0},
	}
	for _, tc := range cases {
		ctx := context.Background()
		q := New(tc.capacity)

		var ran atomic.Int64
		for range tc.tasks {
			err := q.Push(ctx, func(context.Context) error {
				ran.Add(1)
				return nil
			})
			require.NoError(t, err)
		}

		stats := q.Stats()
		assert.Equal(t, tc.tasks/tc.capacity, stats.AutoFlushes, "capacity %d tasks %d", tc.capacity, tc.tasks)
		assert.Equal(t, tc.tasks%tc.capacity, stats.Pending)

		require.NoError(t, q.Flush(ctx))

		stats = q.Stats()
		wantWaves := (tc.tasks + tc.capacity - 1) / tc.capacity
		assert.Equal(t, wantWaves, stats.Waves, "capacity %d tasks %d", tc.capacity, tc.tasks)
		assert.Equal(t, tc.tasks, stats.Executed)
		assert.Equal(t, tc.tasks, stats.Pushed)
		assert.Zero(t, stats.Pending)
		assert.EqualValues(t, tc.tasks, ran.Load())
	}
}

func TestQueueRunsEveryTaskOnce(t *testing.T) {
	ctx := context.Background()
	q := New(4)

	const total = 50
	var counts [total]atomic.Int32
	for i := range total {
		require.NoError(t, q.Push(ctx, func(context.Context) error {
			counts[i].Add(1)
			return nil
		}))
	}
	require.NoError(t, q.Flush(ctx))

	for i := range total {
		assert.EqualValues(t, 1, counts[i].Load(), "task %d", i)
	}
}

func TestQueueUnboundedNeverAutoFlushes(t *testing.T) {
	ctx := context.Background()
	q := New(Unbounded)

	var ran atomic.Int64
	for range 1000 {
		require.NoError(t, q.Push(ctx, func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	assert.Zero(t, ran.Load())
	stats := q.Stats()
	assert.Zero(t, stats.Waves)
	assert.Equal(t, 1000, stats.Pending)

	require.NoError(t, q.Flush(ctx))
	assert.EqualValues(t, 1000, ran.Load())
	assert.Equal(t, 1, q.Stats().Waves)
}

func TestQueueNegativeCapacityIsUnbounded(t *testing.T) {
	q := New(-3)
	assert.Equal(t, Unbounded, q.Capacity())
}

func TestQueueFlushEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	q := New(5)

	require.NoError(t, q.Flush(ctx))
	require.NoError(t, q.Flush(ctx))
	stats := q.Stats()
	assert.Zero(t, stats.Waves)
	assert.Zero(t, stats.Executed)
}

func TestQueueIgnoresNilTask(t *testing.T) {
	q := New(1)
	require.NoError(t, q.Push(context.Background(), nil))
	assert.Zero(t, q.Stats().Pushed)
}

func TestQueuePushBlocksUntilWaveDrains(t *testing.T) {
	ctx := context.Background()
	q := New(2)

	release := make(chan struct{})
	var finished atomic.Int32
	slow := func(context.Context) error {
		<-release
		finished.Add(1)
		return nil
	}

	require.NoError(t, q.Push(ctx, slow))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.Push(ctx, slow)
	}()

	select {
	case <-pushed:
		t.Fatal("push returned before the wave drained")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-pushed)
	assert.EqualValues(t, 2, finished.Load())
}

func TestQueueWaveRunsConcurrently(t *testing.T) {
	ctx := context.Background()
	const capacity = 5
	q := New(capacity)

	var (
		started sync.WaitGroup
		active  atomic.Int32
		peak    atomic.Int32
	)
	started.Add(capacity)
	for range capacity {
		err := q.Push(ctx, func(context.Context) error {
			n := active.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			started.Done()
			// Every task in the wave must be running at once for this to return.
			started.Wait()
			active.Add(-1)
			return nil
		})
		require.NoError(t, err)
	}
	assert.EqualValues(t, capacity, peak.Load())
}

func TestQueueAggregatesWaveFailures(t *testing.T) {
	ctx := context.Background()
	q := New(Unbounded)

	errA := errors.New("record a failed")
	errB := errors.New("record b failed")
	var succeeded atomic.Int32

	require.NoError(t, q.Push(ctx, func(context.Context) error { return errA }))
	require.NoError(t, q.Push(ctx, func(context.Context) error {
		succeeded.Add(1)
		return nil
	}))
	require.NoError(t, q.Push(ctx, func(context.Context) error { return errB }))

	err := q.Flush(ctx)
	require.Error(t, err)

	var waveErr *WaveError
	require.ErrorAs(t, err, &waveErr)
	assert.Equal(t, 1, waveErr.Wave)
	assert.Len(t, waveErr.Errs, 2)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.EqualValues(t, 1, succeeded.Load(), "failures must not cancel siblings")
	assert.Equal(t, 2, q.Stats().Failed)
	assert.Contains(t, err.Error(), "2 tasks failed")
}

func TestQueueAutoFlushReturnsWaveError(t *testing.T) {
	ctx := context.Background()
	q := New(2)
	boom := errors.New("boom")

	require.NoError(t, q.Push(ctx, noop))
	err := q.Push(ctx, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	// The next wave starts clean.
	require.NoError(t, q.Push(ctx, noop))
	require.NoError(t, q.Flush(ctx))
}

func TestQueueRecoversPanics(t *testing.T) {
	ctx := context.Background()
	q := New(Unbounded)

	require.NoError(t, q.Push(ctx, func(context.Context) error { panic("kaboom") }))
	require.NoError(t, q.Push(ctx, noop))

	err := q.Flush(ctx)
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "kaboom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
	assert.Equal(t, 2, q.Stats().Executed)
}

func TestQueueConcurrentPushers(t *testing.T) {
	ctx := context.Background()
	q := New(7)

	const producers = 8
	const perProducer = 25
	var ran atomic.Int64
	var wg sync.WaitGroup
	wg.Add(producers)
	for range producers {
		go func() {
			defer wg.Done()
			for range perProducer {
				_ = q.Push(ctx, func(context.Context) error {
					ran.Add(1)
					return nil
				})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, q.Flush(ctx))

	assert.EqualValues(t, producers*perProducer, ran.Load())
	stats := q.Stats()
	assert.Equal(t, producers*perProducer, stats.Executed)
	assert.Zero(t, stats.Pending)
}

func TestQueuePassesContextToTasks(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "run-1")
	q := New(1)

	var got any
	require.NoError(t, q.Push(ctx, func(ctx context.Context) error {
		got = ctx.Value(key{})
		return nil
	}))
	assert.Equal(t, "run-1", got)
}

func TestFailuresFlattensWaveError(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	assert.Nil(t, Failures(nil))
	assert.Equal(t, []error{errA}, Failures(errA))
	assert.Equal(t, []error{errA, errB}, Failures(&WaveError{Wave: 3, Errs: []error{errA, errB}}))
}
