package threadqueue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/clock"
)

// PollInterval is the default interval at which an idle listener re-checks
// the queue when no wake-up signal arrives.
const PollInterval = 100 * time.Millisecond

var (
	// ErrCompleted is returned when enqueuing after Complete.
	ErrCompleted = errors.New("threadqueue: queue is completed")
	// ErrAlreadyListening is returned by a second concurrent Listen.
	ErrAlreadyListening = errors.New("threadqueue: queue already has a listener")
)

// State is the lifecycle state of a queue.
type State int32

const (
	Listening State = iota
	Draining
	Completed
)

func (s State) String() string {
	switch s {
	case Listening:
		return "listening"
	case Draining:
		return "draining"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ConsumerFault is returned by Listen when the consumer failed or panicked.
type ConsumerFault struct {
	Err       error
	Recovered any
	Stack     []byte
}

func (f *ConsumerFault) Error() string {
	if f.Recovered != nil {
		return fmt.Sprintf("threadqueue: consumer panicked: %v", f.Recovered)
	}
	return fmt.Sprintf("threadqueue: consumer failed: %v", f.Err)
}

func (f *ConsumerFault) Unwrap() error {
	return f.Err
}

// Option configures a queue.
type Option func(*options)

type options struct {
	clock    clock.Clock
	interval time.Duration
}

// WithClock sets the clock used for the idle poll.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithPollInterval overrides PollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// Queue is an unbounded FIFO with a single listener.
type Queue[T any] struct {
	clock    clock.Clock
	interval time.Duration
	wake     chan struct{}

	mu        sync.Mutex
	items     []T
	completed bool
	draining  bool

	listening atomic.Bool
}

// New creates an empty queue in the Listening state.
func New[T any](opts ...Option) *Queue[T] {
	o := options{clock: clock.WallClock, interval: PollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	return &Queue[T]{
		clock:    o.clock,
		interval: o.interval,
		wake:     make(chan struct{}, 1),
	}
}

// QueueObject appends item. It never blocks and fails with ErrCompleted once
// Complete has been called.
func (q *Queue[T]) QueueObject(item T) error {
	q.mu.Lock()
	if q.completed {
		q.mu.Unlock()
		return ErrCompleted
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Complete stops accepting items. The listener exits once the remaining
// items are drained. Calling Complete more than once has no effect.
func (q *Queue[T]) Complete() {
	q.mu.Lock()
	q.completed = true
	q.mu.Unlock()
	q.signal()
}

// State reports the lifecycle state.
func (q *Queue[T]) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	switch {
	case q.completed:
		return Completed
	case q.draining:
		return Draining
	default:
		return Listening
	}
}

// Len returns the number of pending items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Listen consumes items in enqueue order on the calling goroutine until the
// queue is completed and empty. A consumer error or panic stops draining and
// is returned as a *ConsumerFault; items still queued are left in place.
// Cancelling ctx also stops the listener.
func (q *Queue[T]) Listen(ctx context.Context, consume func(T) error) error {
	if !q.listening.CompareAndSwap(false, true) {
		return ErrAlreadyListening
	}
	defer q.listening.Store(false)

	for {
		item, ok, completed := q.next()
		if ok {
			err := invoke(consume, item)
			q.setDraining(false)
			if err != nil {
				return err
			}
			continue
		}
		if completed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		case <-q.clock.After(q.interval):
		}
	}
}

func (q *Queue[T]) next() (item T, ok bool, completed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return item, false, q.completed
	}
	item = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	q.draining = true
	return item, true, q.completed
}

func (q *Queue[T]) setDraining(v bool) {
	q.mu.Lock()
	q.draining = v
	q.mu.Unlock()
}

func invoke[T any](consume func(T) error, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ConsumerFault{Recovered: r, Stack: debug.Stack()}
		}
	}()
	if cerr := consume(item); cerr != nil {
		var fault *ConsumerFault
		if errors.As(cerr, &fault) {
			return cerr
		}
		return &ConsumerFault{Err: cerr}
	}
	return nil
}
