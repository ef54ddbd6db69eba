package reconcile

import (
	"context"
	"fmt"
	"reflect"

	"github.com/juju/clock"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/log"
	"github.com/imamik/flexprov/internal/metrics"
	"github.com/imamik/flexprov/internal/provider"
)

// Result is the outcome of an ensure-exists operation. Exactly one of Found
// and CreatedNew is true on success.
type Result[T any] struct {
	Found      bool
	CreatedNew bool
	Handle     T
}

// Operation encapsulates get-or-create logic for one resource.
//
// Usage example:
//
//	res, err := (&reconcile.Operation[*provider.Resource]{
//	    Kind:   provider.KindCloudService,
//	    Name:   name,
//	    Get:    cloud.GetCloudService,
//	    Create: func(ctx context.Context) (*provider.Resource, error) {
//	        return cloud.CreateCloudService(ctx, spec)
//	    },
//	}).Execute(ctx, emitter)
type Operation[T any] struct {
	Kind provider.Kind
	Name string

	// Get retrieves the resource by name. Absence is reported either as an
	// error matching IsNotFound or as a nil handle with a nil error.
	Get func(ctx context.Context, name string) (T, error)

	// Create provisions the resource.
	Create func(ctx context.Context) (T, error)

	// IsNotFound classifies Get errors; defaults to provider.IsNotFound.
	IsNotFound func(error) bool

	// Validate checks an existing resource (optional). A validation error
	// fails the operation without creating anything.
	Validate func(T) error
}

// ExecuteOption configures a single Execute call.
type ExecuteOption func(*execConfig)

type execConfig struct {
	metrics *metrics.Recorder
	clock   clock.Clock
}

// WithMetrics records the outcome in rec.
func WithMetrics(rec *metrics.Recorder) ExecuteOption {
	return func(c *execConfig) {
		c.metrics = rec
	}
}

// WithClock sets the clock used to time the operation.
func WithClock(clk clock.Clock) ExecuteOption {
	return func(c *execConfig) {
		c.clock = clk
	}
}

// Execute performs the ensure operation: return the existing resource or
// create it. Phase events are published to emitter, which may be nil.
func (op *Operation[T]) Execute(ctx context.Context, emitter events.Emitter, opts ...ExecuteOption) (Result[T], error) {
	cfg := execConfig{clock: clock.WallClock}
	for _, opt := range opts {
		opt(&cfg)
	}
	start := cfg.clock.Now()
	logger := log.WithComponent("reconcile").With().
		Str("kind", string(op.Kind)).
		Str("name", op.Name).
		Logger()

	res, err := op.execute(ctx, emitter)

	outcome := metrics.OutcomeFound
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
	case res.CreatedNew:
		outcome = metrics.OutcomeCreated
	}
	cfg.metrics.RecordReconcile(string(op.Kind), outcome, cfg.clock.Now().Sub(start))
	logger.Debug().Str("outcome", outcome).Err(err).Msg("reconciled")

	return res, err
}

func (op *Operation[T]) execute(ctx context.Context, emitter events.Emitter) (Result[T], error) {
	var zero Result[T]
	isNotFound := op.IsNotFound
	if isNotFound == nil {
		isNotFound = provider.IsNotFound
	}

	existing, err := op.Get(ctx, op.Name)
	switch {
	case err != nil && !isNotFound(err):
		return zero, fmt.Errorf("failed to get %s %q: %w", op.Kind, op.Name, err)
	case err == nil && !isNil(existing):
		if op.Validate != nil {
			if verr := op.Validate(existing); verr != nil {
				return zero, fmt.Errorf("%s %q exists but is invalid: %w", op.Kind, op.Name, verr)
			}
		}
		phase(emitter, events.PhaseFoundExisting, op.Kind, op.Name)
		return Result[T]{Found: true, Handle: existing}, nil
	}

	phase(emitter, events.PhaseCheckIfExists, op.Kind, op.Name)
	phase(emitter, events.PhaseProvision, op.Kind, op.Name)

	created, err := op.Create(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s %q: %w", op.Kind, op.Name, err)
	}
	return Result[T]{CreatedNew: true, Handle: created}, nil
}

func phase(emitter events.Emitter, p events.Phase, kind provider.Kind, name string) {
	if emitter != nil {
		emitter.Phase(p, kind, name)
	}
}

// isNil reports whether v is a nil pointer, interface, map or slice.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
