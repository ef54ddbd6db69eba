package orchestration

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/log"
	"github.com/imamik/flexprov/internal/provisioning"
	"github.com/imamik/flexprov/internal/threadqueue"
)

// Report is the outcome of one command run.
type Report struct {
	RunID string
	// Events is the ordered event log of the run.
	Events []events.Event
	// Created lists the resources the run created.
	Created []string
	// ArchiveKey is the object key of the archived journal, if any.
	ArchiveKey string
	Err        error
}

// Archiver stores the journal of a finished run.
type Archiver interface {
	Upload(ctx context.Context, emitter events.Emitter, runID string, journal *events.Journal) (string, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithConsole renders every event on console.
func WithConsole(console *events.Console) Option {
	return func(r *Runner) {
		r.console = console
	}
}

// WithArchive archives the journal of every run.
func WithArchive(a Archiver) Option {
	return func(r *Runner) {
		r.archive = a
	}
}

// WithStreamOptions passes options to the event stream of every run.
func WithStreamOptions(opts ...events.StreamOption) Option {
	return func(r *Runner) {
		r.streamOpts = append(r.streamOpts, opts...)
	}
}

// Runner executes commands against one Runtime.
type Runner struct {
	rt         *config.Runtime
	console    *events.Console
	archive    Archiver
	streamOpts []events.StreamOption
}

// NewRunner creates a runner for rt.
func NewRunner(rt *config.Runtime, opts ...Option) *Runner {
	r := &Runner{rt: rt}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run executes work as one bridged run.
func (r *Runner) run(ctx context.Context, command string, work func(*provisioning.Context) error) Report {
	stream := events.NewStream(append([]events.StreamOption{events.WithClock(r.rt.Clock)}, r.streamOpts...)...)
	logger := log.WithRun(stream.RunID()).With().Str("command", command).Logger()
	journal := &events.Journal{}

	var pctx *provisioning.Context
	start := r.rt.Clock.Now()
	logger.Info().Msg("run starting")

	evs, err := threadqueue.Bridge(ctx, stream, r.sink(journal), func(c context.Context) error {
		pctx = provisioning.NewContext(c, r.rt, stream)
		pctx.Logger = logger.With().Str("component", "provisioning").Logger()
		return work(pctx)
	})

	report := Report{RunID: stream.RunID(), Events: evs, Err: err}
	if pctx != nil {
		for _, res := range pctx.State.Created() {
			report.Created = append(report.Created, res.String())
		}
	}
	report.ArchiveKey = r.archiveRun(ctx, logger, stream, journal)

	event := logger.Info()
	if err != nil {
		event = logger.Error().Err(err)
	}
	event.Int("events", len(evs)).
		Int("created", len(report.Created)).
		Dur("elapsed", r.rt.Clock.Now().Sub(start).Round(time.Millisecond)).
		Msg("run finished")
	return report
}

// sink fans one bridged event out to the metrics, the journal and the
// console.
func (r *Runner) sink(journal *events.Journal) threadqueue.Sink {
	return func(e events.Event) error {
		r.rt.Metrics.ObserveEvent(e)
		if err := journal.Handle(e); err != nil {
			return err
		}
		if r.console != nil {
			return r.console.Handle(e)
		}
		return nil
	}
}

// archiveRun uploads the journal. A failed upload is logged and rendered
// but does not fail the run.
func (r *Runner) archiveRun(ctx context.Context, logger zerolog.Logger, stream *events.Stream, journal *events.Journal) string {
	if r.archive == nil {
		return ""
	}
	if r.console != nil {
		cancel := stream.Subscribe(func(e events.Event) {
			_ = r.console.Handle(e)
		})
		defer cancel()
	}

	key, err := r.archive.Upload(ctx, stream, stream.RunID(), journal)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to archive run")
		stream.Warn("Run journal was not archived: " + err.Error())
		return ""
	}
	if key != "" {
		logger.Debug().Str("key", key).Int("events", journal.Len()).Msg("run archived")
	}
	return key
}
