package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/imamik/flexprov/internal/log"
	"github.com/imamik/flexprov/internal/provider"
)

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Stream is a live-only event stream for one run.
type Stream struct {
	runID  string
	clock  clock.Clock
	logger zerolog.Logger

	mu   sync.RWMutex
	subs []subscription
	next uint64
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithClock sets the clock used for event timestamps.
func WithClock(clk clock.Clock) StreamOption {
	return func(s *Stream) {
		s.clock = clk
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) StreamOption {
	return func(s *Stream) {
		s.runID = id
	}
}

// NewStream creates a stream with a fresh run id.
func NewStream(opts ...StreamOption) *Stream {
	s := &Stream{
		runID: uuid.NewString(),
		clock: clock.WallClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.WithRun(s.runID).With().Str("component", "events").Logger()
	return s
}

// RunID returns the id stamped on every event of this stream.
func (s *Stream) RunID() string {
	return s.runID
}

// Subscribe registers h and returns a function that removes it. Events
// published before the call are not replayed.
func (s *Stream) Subscribe(h Handler) (cancel func()) {
	s.mu.Lock()
	s.next++
	id := s.next
	s.subs = append(s.subs, subscription{id: id, handler: h})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish stamps e with an id, the run id and a timestamp and hands it to
// every current subscriber. The stamped event is returned.
//
// Delivery is inline on the publishing goroutine: Publish returns only
// after every subscriber has handled e, so a slow subscriber stalls the
// reconciler that published. Subscribers that do real work should hand
// events off, as threadqueue.Bridge does. Events from different
// goroutines reach a subscriber in no guaranteed order.
func (s *Stream) Publish(e Event) Event {
	e = s.Stamp(e)

	s.mu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		s.deliver(sub, e)
	}
	return e
}

// Stamp fills the id, run id and timestamp of e without publishing it.
func (s *Stream) Stamp(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.RunID = s.runID
	if e.Timestamp.IsZero() {
		e.Timestamp = s.clock.Now()
	}
	return e
}

func (s *Stream) deliver(sub subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("event_id", e.ID).
				Uint64("subscriber", sub.id).
				Str("panic", fmt.Sprint(r)).
				Msg("event subscriber panicked")
		}
	}()
	sub.handler(e)
}

// Info publishes an information event.
func (s *Stream) Info(importance Importance, message string) {
	s.Publish(Event{Kind: KindInformation, Importance: importance, Message: message})
}

// Warn publishes a medium-importance warning.
func (s *Stream) Warn(message string) {
	s.Publish(Event{Kind: KindWarning, Importance: Medium, Message: message})
}

// Error publishes a high-importance error event.
func (s *Stream) Error(message string, err error) {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	s.Publish(Event{Kind: KindError, Importance: High, Message: message})
}

// Phase publishes a reconciliation phase for the named resource.
func (s *Stream) Phase(phase Phase, kind provider.Kind, name string) {
	importance := Low
	if phase == PhaseProvision {
		importance = Medium
	}
	s.Publish(Event{
		Kind:         KindInformation,
		Importance:   importance,
		Phase:        phase,
		Resource:     name,
		ResourceKind: kind,
		Message:      fmt.Sprintf("%s %s %s", phase, kind, name),
	})
}

// Key publishes key material, such as a connection string.
func (s *Stream) Key(message, material string) {
	s.Publish(Event{Kind: KindKey, Importance: High, Message: message, Material: material})
}

// StartProgress publishes a progress event and returns its handle.
func (s *Stream) StartProgress(importance Importance, message string) *Progress {
	p := &Progress{
		id:         uuid.NewString(),
		importance: importance,
		message:    message,
	}
	s.Publish(Event{
		Kind:       KindProgress,
		Importance: importance,
		Message:    message,
		ProgressID: p.id,
		Progress:   p,
	})
	return p
}

var _ Emitter = (*Stream)(nil)
