package provisioning

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/util/async"
)

// Phase is one step of a provisioning pipeline.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Pipeline runs phases in order and stops at the first failed phase.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline of phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes all phases sequentially.
func (p *Pipeline) Run(ctx *Context) error {
	start := ctx.Runtime.Clock.Now()
	ctx.Logger.Info().Int("phases", len(p.Phases)).Msg("starting provisioning")

	for i, phase := range p.Phases {
		phaseStart := ctx.Runtime.Clock.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(p.Phases))
		ctx.Logger.Info().Str("phase", name).Msg("phase starting")

		if err := phase.Provision(ctx); err != nil {
			ctx.Logger.Error().Str("phase", name).Err(err).Msg("phase failed")
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Logger.Info().Str("phase", name).
			Dur("elapsed", ctx.Runtime.Clock.Now().Sub(phaseStart).Round(time.Millisecond)).
			Msg("phase completed")
	}

	ctx.Logger.Info().Dur("elapsed", ctx.Runtime.Clock.Now().Sub(start).Round(time.Millisecond)).Msg("provisioning completed")
	return nil
}

// Unit is one independently failing piece of work in a batch.
type Unit struct {
	Name string
	Run  func(ctx *Context) error
}

// Batch is a phase whose units run concurrently. Every unit runs to
// completion; failures are collected into an *async.BatchError.
type Batch struct {
	Label string
	Units []Unit
}

// Name implements Phase.
func (b *Batch) Name() string {
	return b.Label
}

// Provision implements Phase.
func (b *Batch) Provision(ctx *Context) error {
	if len(b.Units) == 0 {
		return nil
	}

	progress := ctx.Emitter.StartProgress(events.Low, b.Label)
	defer progress.Done()

	var finished atomic.Int64
	total := int64(len(b.Units))
	tasks := make([]async.Task, 0, len(b.Units))
	for _, u := range b.Units {
		tasks = append(tasks, async.Task{
			Name: u.Name,
			Func: func(c context.Context) error {
				err := u.Run(ctx.WithContext(c))
				if err != nil {
					ctx.Emitter.Error(fmt.Sprintf("%s failed", u.Name), err)
				}
				progress.Report(int(finished.Add(1) * 100 / total))
				return err
			},
		})
	}
	return async.RunAll(ctx, tasks)
}
