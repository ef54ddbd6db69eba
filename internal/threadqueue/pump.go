package threadqueue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrPumpUsed is returned when Run is called on a pump a second time.
var ErrPumpUsed = errors.New("threadqueue: pump already ran")

type pumpKey struct{}

// WithPump returns a child context carrying p as the ambient pump. Contexts
// derived from the parent are unaffected.
func WithPump(ctx context.Context, p *Pump) context.Context {
	return context.WithValue(ctx, pumpKey{}, p)
}

// FromContext returns the ambient pump of ctx.
func FromContext(ctx context.Context) (*Pump, bool) {
	p, ok := ctx.Value(pumpKey{}).(*Pump)
	return p, ok
}

// Post enqueues fn on the ambient pump of ctx.
func Post(ctx context.Context, fn func() error) error {
	p, ok := FromContext(ctx)
	if !ok {
		return errors.New("threadqueue: no pump in context")
	}
	return p.Post(fn)
}

// Pump runs a function in the background and executes the continuations it
// posts on the goroutine that called Run. A pump runs once.
type Pump struct {
	queue *Queue[func() error]
	used  atomic.Bool
}

// NewPump creates a pump.
func NewPump(opts ...Option) *Pump {
	return &Pump{queue: New[func() error](opts...)}
}

// Post enqueues a continuation. It fails with ErrCompleted once the work
// function has returned.
func (p *Pump) Post(fn func() error) error {
	return p.queue.QueueObject(fn)
}

// Run starts fn on a new goroutine with a context carrying p and drains
// continuations until fn has returned and every continuation posted before
// that has run. When a continuation fails the work context is cancelled and
// Run waits for fn before returning. The errors of fn and of the failing
// continuation are joined.
func (p *Pump) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if !p.used.CompareAndSwap(false, true) {
		return ErrPumpUsed
	}

	workCtx, cancel := context.WithCancel(WithPump(ctx, p))
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer p.queue.Complete()
		done <- runWork(workCtx, fn)
	}()

	drainErr := p.queue.Listen(context.WithoutCancel(ctx), func(cont func() error) error {
		return cont()
	})
	if drainErr != nil {
		cancel()
		p.queue.Complete()
	}

	return errors.Join(<-done, drainErr)
}

func runWork(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("threadqueue: work panicked: %v", r)
		}
	}()
	return fn(ctx)
}
