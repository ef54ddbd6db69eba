package config

import (
	"fmt"

	"github.com/juju/clock"

	"github.com/imamik/flexprov/internal/chooser"
	"github.com/imamik/flexprov/internal/metrics"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/reconcile"
	"github.com/imamik/flexprov/internal/util/naming"
)

// Runtime bundles everything a command needs. It is built once, before any
// provisioning starts, and only read afterwards.
type Runtime struct {
	Config   *Config
	Secrets  Secrets
	Timeouts *Timeouts
	Naming   *naming.Resolver
	Choosers *chooser.Registry
	Gate     *reconcile.Gate
	Metrics  *metrics.Recorder
	Clock    clock.Clock

	// Cloud serves every non-compute resource kind. Nil for VM commands.
	Cloud provider.Cloud
	// Compute serves VMs and reserved IPs from the selected backend.
	Compute provider.Compute
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithCloud sets the resource backend.
func WithCloud(c provider.Cloud) RuntimeOption {
	return func(r *Runtime) {
		r.Cloud = c
	}
}

// WithCompute sets the compute backend.
func WithCompute(c provider.Compute) RuntimeOption {
	return func(r *Runtime) {
		r.Compute = c
	}
}

// WithSecrets sets the SQL credentials.
func WithSecrets(s Secrets) RuntimeOption {
	return func(r *Runtime) {
		r.Secrets = s
	}
}

// WithTimeouts overrides the environment-derived timeouts.
func WithTimeouts(t *Timeouts) RuntimeOption {
	return func(r *Runtime) {
		r.Timeouts = t
	}
}

// WithClock sets the clock used for polling and timing.
func WithClock(clk clock.Clock) RuntimeOption {
	return func(r *Runtime) {
		r.Clock = clk
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) RuntimeOption {
	return func(r *Runtime) {
		r.Metrics = m
	}
}

// NewRuntime builds the runtime for cfg: naming overrides and chooser
// selections are registered here.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, Invalid("", "configuration is required")
	}

	rt := &Runtime{
		Config:   cfg,
		Naming:   naming.NewResolver(cfg.Policy()),
		Choosers: chooser.NewRegistry(),
		Gate:     reconcile.NewGate(),
		Clock:    clock.WallClock,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.Timeouts == nil {
		t, err := LoadTimeouts()
		if err != nil {
			return nil, err
		}
		rt.Timeouts = t
	}
	if rt.Metrics == nil {
		rt.Metrics = metrics.NewRecorder()
	}
	if rt.Compute == nil && rt.Cloud != nil {
		rt.Compute = rt.Cloud
	}

	for i, o := range cfg.Naming.Overrides {
		kind, err := provider.ParseKind(o.Kind)
		if err != nil {
			return nil, &ConfigurationError{Field: fmt.Sprintf("naming.overrides[%d].kind", i), Err: err}
		}
		if err := rt.Naming.Overrides.Register(kind, o.Template); err != nil {
			return nil, &ConfigurationError{Field: fmt.Sprintf("naming.overrides[%d]", i), Err: err}
		}
	}

	for k, name := range cfg.Choosers {
		kind, err := provider.ParseKind(k)
		if err != nil {
			return nil, &ConfigurationError{Field: "choosers." + k, Err: err}
		}
		c, err := chooser.ByName(name)
		if err != nil {
			return nil, &ConfigurationError{Field: "choosers." + k, Err: err}
		}
		rt.Choosers.Register(kind, c)
	}

	return rt, nil
}

// Identity returns the naming identity of a configured component.
func (r *Runtime) Identity(kind provider.Kind, logicalName string) naming.Identity {
	return naming.Identity{
		Kind:              kind,
		LogicalName:       logicalName,
		SystemLogicalName: r.Config.System,
		Branch:            r.Config.EffectiveBranch(),
		Configuration:     r.Config.Configuration,
	}
}

// Name returns the concrete resource name of a configured component.
func (r *Runtime) Name(kind provider.Kind, logicalName string) string {
	return r.Naming.Name(r.Identity(kind, logicalName))
}

// Location returns the location new resources are created in.
func (r *Runtime) Location() string {
	return r.Config.Provider.Azure.Location
}
