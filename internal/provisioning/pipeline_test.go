package provisioning

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/util/async"
)

type stubPhase struct {
	name string
	err  error
	log  *[]string
}

func (p stubPhase) Name() string { return p.name }

func (p stubPhase) Provision(*Context) error {
	*p.log = append(*p.log, p.name)
	return p.err
}

func TestPipeline_RunsInOrder(t *testing.T) {
	ctx, _ := newTestContext(t)
	var ran []string

	err := NewPipeline(
		stubPhase{name: "one", log: &ran},
		stubPhase{name: "two", log: &ran},
		stubPhase{name: "three", log: &ran},
	).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, ran)
}

func TestPipeline_StopsAtFailedPhase(t *testing.T) {
	ctx, _ := newTestContext(t)
	var ran []string
	boom := errors.New("boom")

	err := NewPipeline(
		stubPhase{name: "one", log: &ran},
		stubPhase{name: "two", err: boom, log: &ran},
		stubPhase{name: "three", log: &ran},
	).Run(ctx)

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "two phase failed")
	assert.Equal(t, []string{"one", "two"}, ran)
}

func TestBatch_RunsEveryUnit(t *testing.T) {
	ctx, rec := newTestContext(t)
	boom := errors.New("boom")
	var mu sync.Mutex
	ran := map[string]bool{}
	unit := func(name string, err error) Unit {
		return Unit{Name: name, Run: func(*Context) error {
			mu.Lock()
			defer mu.Unlock()
			ran[name] = true
			return err
		}}
	}

	err := (&Batch{Label: "Provisioning", Units: []Unit{
		unit("a", nil),
		unit("b", boom),
		unit("c", nil),
		unit("d", boom),
	}}).Provision(ctx)

	var batch *async.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, []string{"b", "d"}, batch.Names())
	assert.Len(t, ran, 4)
	assert.Len(t, rec.ofKind(events.KindError), 2)
	progress := rec.ofKind(events.KindProgress)
	require.Len(t, progress, 1)
	assert.Equal(t, "Provisioning", progress[0].Message)
}

func TestBatch_Empty(t *testing.T) {
	ctx, rec := newTestContext(t)

	require.NoError(t, (&Batch{Label: "Nothing"}).Provision(ctx))
	assert.Empty(t, rec.ofKind(events.KindProgress))
}

func TestState_IgnoresEmptyResult(t *testing.T) {
	s := NewState()
	assert.Empty(t, s.Outcomes())
	s.Record(Result{})
	assert.Empty(t, s.Outcomes())
}
