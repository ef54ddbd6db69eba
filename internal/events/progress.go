package events

import (
	"sync"
)

// Tick is one percentage report of a progress sequence. Percent values are
// informational and not guaranteed to be monotonic.
type Tick struct {
	ProgressID string
	Percent    int
	Message    string
	Done       bool
}

// Progress is the handle of a running progress sequence.
type Progress struct {
	id         string
	importance Importance
	message    string

	mu       sync.Mutex
	handlers []func(Tick)
	done     bool
}

// ID returns the progress id, shared with its start event.
func (p *Progress) ID() string {
	return p.id
}

// Message returns the message the progress was started with.
func (p *Progress) Message() string {
	return p.message
}

// Importance returns the importance the progress was started with.
func (p *Progress) Importance() Importance {
	return p.importance
}

// OnTick registers fn for subsequent ticks. Handlers registered after Done
// are never called.
func (p *Progress) OnTick(fn func(Tick)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.handlers = append(p.handlers, fn)
}

// Report pushes a tick to the tick handlers. Reports after Done are ignored.
func (p *Progress) Report(percent int) {
	p.emit(Tick{ProgressID: p.id, Percent: percent, Message: p.message})
}

// Done sends a final tick and stops the sequence. It is idempotent.
func (p *Progress) Done() {
	p.emit(Tick{ProgressID: p.id, Percent: 100, Message: p.message, Done: true})
}

func (p *Progress) emit(t Tick) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	if t.Done {
		p.done = true
	}
	handlers := make([]func(Tick), len(p.handlers))
	copy(handlers, p.handlers)
	if t.Done {
		p.handlers = nil
	}
	p.mu.Unlock()

	for _, h := range handlers {
		func() {
			defer func() { _ = recover() }()
			h(t)
		}()
	}
}

// TickEvent converts a tick into a progress event of the same sequence.
func (p *Progress) TickEvent(t Tick) Event {
	return Event{
		Kind:       KindProgress,
		Importance: p.importance,
		Message:    t.Message,
		Percent:    t.Percent,
		ProgressID: t.ProgressID,
	}
}
