package threadqueue

import (
	"context"
	"errors"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/log"
)

// Sink consumes bridged events on the draining goroutine.
type Sink func(events.Event) error

// Bridge subscribes to stream, runs work in the background and hands every
// event published while work runs to sink, in publication order, on the
// calling goroutine. Ticks of progress sequences started during the run are
// bridged as progress events. It returns the ordered event log and the
// joined errors of work and sink. A failing sink cancels the work context.
func Bridge(ctx context.Context, stream *events.Stream, sink Sink, work func(ctx context.Context) error, opts ...Option) ([]events.Event, error) {
	pump := NewPump(opts...)
	logger := log.WithComponent("threadqueue")

	var journal []events.Event
	deliver := func(e events.Event) func() error {
		return func() error {
			journal = append(journal, e)
			if sink == nil {
				return nil
			}
			return sink(e)
		}
	}
	post := func(e events.Event) {
		if err := pump.Post(deliver(e)); err != nil && !errors.Is(err, ErrCompleted) {
			logger.Warn().Err(err).Str("event_id", e.ID).Msg("dropping event")
		} else if err != nil {
			logger.Debug().Str("event_id", e.ID).Msg("event published after run completed")
		}
	}

	unsubscribe := stream.Subscribe(func(e events.Event) {
		post(e)
		if p := e.Progress; p != nil {
			p.OnTick(func(t events.Tick) {
				post(stream.Stamp(p.TickEvent(t)))
			})
		}
	})
	defer unsubscribe()

	err := pump.Run(ctx, work)
	return journal, err
}
