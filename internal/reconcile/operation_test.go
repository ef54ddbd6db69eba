package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/metrics"
	"github.com/imamik/flexprov/internal/provider"
)

type phaseLog struct {
	mu     sync.Mutex
	phases []events.Phase
}

func (p *phaseLog) record(s *events.Stream) {
	s.Subscribe(func(e events.Event) {
		if e.Phase == "" {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		p.phases = append(p.phases, e.Phase)
	})
}

func newOp(existing *provider.Resource, getErr error, created *int) *Operation[*provider.Resource] {
	return &Operation[*provider.Resource]{
		Kind: provider.KindCloudService,
		Name: "tsys-svc-test",
		Get: func(_ context.Context, name string) (*provider.Resource, error) {
			if getErr != nil {
				return nil, getErr
			}
			return existing, nil
		},
		Create: func(_ context.Context) (*provider.Resource, error) {
			*created++
			return &provider.Resource{Kind: provider.KindCloudService, Name: "tsys-svc-test"}, nil
		},
	}
}

func TestOperation_FoundExisting(t *testing.T) {
	existing := &provider.Resource{Kind: provider.KindCloudService, Name: "tsys-svc-test", ID: "id-1"}
	created := 0
	stream := events.NewStream()
	log := &phaseLog{}
	log.record(stream)

	res, err := newOp(existing, nil, &created).Execute(context.Background(), stream)

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.False(t, res.CreatedNew)
	assert.Same(t, existing, res.Handle)
	assert.Equal(t, 0, created)
	assert.Equal(t, []events.Phase{events.PhaseFoundExisting}, log.phases)
}

func TestOperation_CreatesWhenNotFoundError(t *testing.T) {
	created := 0
	stream := events.NewStream()
	log := &phaseLog{}
	log.record(stream)

	res, err := newOp(nil, provider.NotFound(provider.KindCloudService, "tsys-svc-test"), &created).
		Execute(context.Background(), stream)

	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.True(t, res.CreatedNew)
	assert.Equal(t, "tsys-svc-test", res.Handle.Name)
	assert.Equal(t, 1, created)
	assert.Equal(t, []events.Phase{events.PhaseCheckIfExists, events.PhaseProvision}, log.phases)
}

func TestOperation_CreatesWhenNilHandle(t *testing.T) {
	created := 0
	res, err := newOp(nil, nil, &created).Execute(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, res.CreatedNew)
	assert.Equal(t, 1, created)
}

func TestOperation_GetFailureIsPropagated(t *testing.T) {
	created := 0
	boom := errors.New("throttled")

	_, err := newOp(nil, boom, &created).Execute(context.Background(), nil)

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tsys-svc-test")
	assert.Equal(t, 0, created)
}

func TestOperation_CustomNotFound(t *testing.T) {
	gone := errors.New("ResourceGroupNotFound")
	created := 0
	op := newOp(nil, gone, &created)
	op.IsNotFound = func(err error) bool { return errors.Is(err, gone) }

	res, err := op.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.CreatedNew)
}

func TestOperation_CreateFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	op := &Operation[*provider.Resource]{
		Kind:   provider.KindReservedIP,
		Name:   "tsys-ip-test",
		Get:    func(context.Context, string) (*provider.Resource, error) { return nil, nil },
		Create: func(context.Context) (*provider.Resource, error) { return nil, boom },
	}
	rec := metrics.NewRecorder()

	_, err := op.Execute(context.Background(), nil, WithMetrics(rec))

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to create "+string(provider.KindReservedIP))
	n, _ := testutil.GatherAndCount(rec.Registry(), "flexprov_reconcile_total")
	assert.Equal(t, 1, n)
}

func TestOperation_ValidateExisting(t *testing.T) {
	existing := &provider.Resource{Name: "tsys-svc-test", Location: "eastus"}
	created := 0
	op := newOp(existing, nil, &created)
	op.Validate = func(r *provider.Resource) error {
		if r.Location != "westeurope" {
			return errors.New("wrong location")
		}
		return nil
	}

	_, err := op.Execute(context.Background(), nil)
	assert.ErrorContains(t, err, "wrong location")
	assert.Equal(t, 0, created)
}

func TestGate_SerializesSameKey(t *testing.T) {
	g := NewGate()
	var inside, peak atomic.Int32
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do("hosting-plan", func() error {
				n := inside.Add(1)
				if n > peak.Load() {
					peak.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
}

func TestGate_IndependentKeys(t *testing.T) {
	g := NewGate()
	held := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = g.Do("a", func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	got, err := Locked(g, "b", func() (string, error) { return "ran", nil })
	require.NoError(t, err)
	assert.Equal(t, "ran", got)
	close(release)
}
