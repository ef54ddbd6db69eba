package threadqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DrainsInOrderUntilCompleted(t *testing.T) {
	q := New[int]()
	for i := range 5 {
		require.NoError(t, q.QueueObject(i))
	}
	q.Complete()

	var got []int
	err := q.Listen(context.Background(), func(i int) error {
		got = append(got, i)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, Completed, q.State())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_QueueAfterComplete(t *testing.T) {
	q := New[string]()
	q.Complete()
	q.Complete()

	assert.ErrorIs(t, q.QueueObject("late"), ErrCompleted)
	assert.Equal(t, Completed, q.State())
}

func TestQueue_ConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	q := New[string]()
	const producers, perProducer = 4, 50

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				_ = q.QueueObject(fmt.Sprintf("%d:%d", p, i))
			}
		}()
	}
	go func() {
		wg.Wait()
		q.Complete()
	}()

	last := map[int]int{}
	count := 0
	err := q.Listen(context.Background(), func(s string) error {
		var p, i int
		_, _ = fmt.Sscanf(s, "%d:%d", &p, &i)
		if prev, ok := last[p]; ok && i != prev+1 {
			return fmt.Errorf("producer %d out of order: %d after %d", p, i, prev)
		}
		last[p] = i
		count++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, producers*perProducer, count)
}

func TestQueue_ListenerWaitsForCompletion(t *testing.T) {
	q := New[int](WithPollInterval(5 * time.Millisecond))
	done := make(chan error, 1)
	got := make(chan int, 10)

	go func() {
		done <- q.Listen(context.Background(), func(i int) error {
			got <- i
			return nil
		})
	}()

	require.NoError(t, q.QueueObject(1))
	assert.Equal(t, 1, <-got)

	select {
	case <-done:
		t.Fatal("listener exited before Complete")
	case <-time.After(30 * time.Millisecond):
	}

	require.NoError(t, q.QueueObject(2))
	q.Complete()
	require.NoError(t, <-done)
	assert.Equal(t, 2, <-got)
}

func TestQueue_ConsumerErrorStopsDraining(t *testing.T) {
	q := New[int]()
	for i := range 3 {
		require.NoError(t, q.QueueObject(i))
	}
	q.Complete()

	boom := errors.New("boom")
	err := q.Listen(context.Background(), func(i int) error {
		if i == 1 {
			return boom
		}
		return nil
	})

	var fault *ConsumerFault
	require.ErrorAs(t, err, &fault)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, fault.Recovered)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ConsumerPanicBecomesFault(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.QueueObject(7))
	q.Complete()

	err := q.Listen(context.Background(), func(int) error {
		panic("consumer exploded")
	})

	var fault *ConsumerFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "consumer exploded", fault.Recovered)
	assert.NotEmpty(t, fault.Stack)
	assert.Contains(t, err.Error(), "panicked")
}

func TestQueue_StateWhileDraining(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.QueueObject(1))
	assert.Equal(t, Listening, q.State())

	var during State
	done := make(chan error, 1)
	go func() {
		done <- q.Listen(context.Background(), func(int) error {
			during = q.State()
			q.Complete()
			return nil
		})
	}()

	require.NoError(t, <-done)
	assert.Equal(t, Draining, during)
	assert.Equal(t, Completed, q.State())
}

func TestQueue_SingleListener(t *testing.T) {
	q := New[int]()
	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, q.QueueObject(1))

	done := make(chan error, 1)
	go func() {
		done <- q.Listen(context.Background(), func(int) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.ErrorIs(t, q.Listen(context.Background(), func(int) error { return nil }), ErrAlreadyListening)

	close(release)
	q.Complete()
	require.NoError(t, <-done)
}

func TestQueue_ContextCancelStopsListener(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- q.Listen(ctx, func(int) error { return nil })
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "listening", Listening.String())
	assert.Equal(t, "draining", Draining.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
