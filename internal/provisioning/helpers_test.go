package provisioning

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/util/naming"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ofKind(kind events.Kind) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// phases returns the reconciliation phases published for resource.
func (r *recorder) phases(resource string) []events.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Phase
	for _, e := range r.events {
		if e.Phase != "" && e.Resource == resource {
			out = append(out, e.Phase)
		}
	}
	return out
}

// messages returns the messages of every event of kind containing substr.
func (r *recorder) messages(kind events.Kind, substr string) []string {
	var out []string
	for _, e := range r.ofKind(kind) {
		if strings.Contains(e.Message, substr) {
			out = append(out, e.Message)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		System:        "FlexSystem",
		Configuration: "Test",
		RootBranch:    naming.DefaultRootBranch,
		Naming: config.NamingConfig{
			SystemMax:        naming.DefaultSystemMax,
			ComponentMax:     naming.DefaultComponentMax,
			ConfigurationMax: naming.DefaultConfigurationMax,
		},
		Provider: config.ProviderConfig{
			Compute: config.ComputeAzure,
			Azure:   config.AzureConfig{Location: "westeurope"},
		},
	}
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		VMPollInterval:          time.Millisecond,
		NamespaceDeleteAttempts: 3,
		NamespaceDeleteDelay:    time.Millisecond,
		RetryMaxAttempts:        1,
		RetryInitialDelay:       time.Millisecond,
	}
}

func newTestContext(t *testing.T, opts ...config.RuntimeOption) (*Context, *recorder) {
	t.Helper()
	rt, err := config.NewRuntime(testConfig(), append([]config.RuntimeOption{config.WithTimeouts(testTimeouts())}, opts...)...)
	require.NoError(t, err)

	stream := events.NewStream()
	rec := &recorder{}
	stream.Subscribe(rec.handle)
	return NewContext(context.Background(), rt, stream), rec
}
