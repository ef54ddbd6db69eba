package provisioning

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/log"
	"github.com/imamik/flexprov/internal/provider"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Runtime *config.Runtime
	Emitter events.Emitter
	State   *State
	Logger  zerolog.Logger
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, rt *config.Runtime, emitter events.Emitter) *Context {
	return &Context{
		Context: ctx,
		Runtime: rt,
		Emitter: emitter,
		State:   NewState(),
		Logger:  log.WithComponent("provisioning"),
	}
}

// WithContext returns a shallow copy of c bound to ctx. Runtime, emitter
// and state are shared.
func (c *Context) WithContext(ctx context.Context) *Context {
	cp := *c
	cp.Context = ctx
	return &cp
}

// cloud returns the resource backend or a configuration error.
func (c *Context) cloud() (provider.Cloud, error) {
	if c.Runtime.Cloud == nil {
		return nil, config.Invalid("provider", "no resource backend is configured")
	}
	return c.Runtime.Cloud, nil
}

// compute returns the compute backend or a configuration error.
func (c *Context) compute() (provider.Compute, error) {
	if c.Runtime.Compute == nil {
		return nil, config.Invalid("provider.compute", "no compute backend is configured")
	}
	return c.Runtime.Compute, nil
}
