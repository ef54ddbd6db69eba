package provisioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/provider/fake"
	"github.com/imamik/flexprov/internal/util/async"
	"github.com/imamik/flexprov/internal/util/retry"
)

func vmState(t *testing.T, cloud *fake.Cloud, name string) *provider.Resource {
	t.Helper()
	vm, err := cloud.GetVM(context.Background(), name)
	require.NoError(t, err)
	return vm
}

func TestResizeVM_RestartsAfterResize(t *testing.T) {
	cloud := fake.New()
	cloud.AddVM("flex-web-test", "Standard_B2s", provider.StateRunning)
	ctx, rec := newTestContext(t, config.WithCompute(cloud))

	err := ResizeVM(ctx, "flex-web-test", "Standard_D4s_v5")

	require.NoError(t, err)
	vm := vmState(t, cloud, "flex-web-test")
	assert.Equal(t, "Standard_D4s_v5", vm.SKU)
	assert.Equal(t, provider.StateRunning, vm.State)
	assert.Equal(t, 1, cloud.Calls("UpdateVMSize"))
	assert.Equal(t, 1, cloud.Calls("StartVM"))
	assert.Len(t, rec.messages(events.KindInformation, "is running with size Standard_D4s_v5"), 1)
	assert.Len(t, rec.ofKind(events.KindProgress), 1)
}

func TestResizeVM_SameSize(t *testing.T) {
	tests := []struct {
		name       string
		state      string
		wantStarts int
	}{
		{name: "running", state: provider.StateRunning, wantStarts: 0},
		{name: "deallocated", state: provider.StateDeallocated, wantStarts: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloud := fake.New()
			cloud.AddVM("vm", "Standard_B2s", tt.state)
			ctx, _ := newTestContext(t, config.WithCompute(cloud))

			require.NoError(t, ResizeVM(ctx, "vm", "standard_b2s"))

			assert.Equal(t, 0, cloud.Calls("UpdateVMSize"))
			assert.Equal(t, tt.wantStarts, cloud.Calls("StartVM"))
			assert.Equal(t, provider.StateRunning, vmState(t, cloud, "vm").State)
		})
	}
}

func TestResizeVM_Missing(t *testing.T) {
	cloud := fake.New()
	ctx, _ := newTestContext(t, config.WithCompute(cloud))

	err := ResizeVM(ctx, "ghost", "Standard_B2s")

	require.Error(t, err)
	assert.True(t, provider.IsNotFound(err))
	assert.Equal(t, 0, cloud.Calls("UpdateVMSize"))
}

func TestResizeVM_NoCompute(t *testing.T) {
	ctx, _ := newTestContext(t)

	err := ResizeVM(ctx, "vm", "Standard_B2s")

	var ce *config.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "provider.compute", ce.Field)
}

// stuckCompute accepts start requests but never brings the VM up.
type stuckCompute struct {
	*fake.Cloud
}

func (stuckCompute) StartVM(context.Context, string) error {
	return nil
}

func TestResizeVM_ReadyTimeout(t *testing.T) {
	cloud := fake.New()
	cloud.AddVM("vm", "Standard_B2s", provider.StateRunning)
	clk := testclock.NewClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	timeouts := testTimeouts()
	timeouts.VMPollInterval = 10 * time.Second
	timeouts.VMReady = 30 * time.Second
	ctx, _ := newTestContext(t,
		config.WithCompute(stuckCompute{cloud}),
		config.WithTimeouts(timeouts),
		config.WithClock(clk))

	errc := make(chan error, 1)
	go func() {
		errc <- ResizeVM(ctx, "vm", "Standard_D4s_v5")
	}()

	for range 3 {
		require.NoError(t, clk.WaitAdvance(10*time.Second, time.Second, 1))
	}

	select {
	case err := <-errc:
		require.ErrorIs(t, err, retry.ErrExhausted)
		assert.Contains(t, err.Error(), "manual intervention required")
	case <-time.After(5 * time.Second):
		t.Fatal("resize did not give up after the ready timeout")
	}
	assert.Equal(t, provider.StateStopped, vmState(t, cloud, "vm").State)
}

func TestResizeVMs_CollectsFailures(t *testing.T) {
	cloud := fake.New()
	for _, name := range []string{"vm-a", "vm-b", "vm-c"} {
		cloud.AddVM(name, "Standard_B2s", provider.StateRunning)
	}
	boom := errors.New("quota exceeded")
	cloud.Fail("UpdateVMSize", "vm-b", boom)
	ctx, rec := newTestContext(t, config.WithCompute(cloud))

	err := ResizeVMs(ctx, []string{"vm-a", "vm-b", "vm-c"}, "Standard_D2s_v5")

	var batch *async.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, []string{"vm-b"}, batch.Names())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Standard_D2s_v5", vmState(t, cloud, "vm-a").SKU)
	assert.Equal(t, "Standard_B2s", vmState(t, cloud, "vm-b").SKU)
	assert.Equal(t, "Standard_D2s_v5", vmState(t, cloud, "vm-c").SKU)
	assert.Len(t, rec.messages(events.KindError, "vm-b failed"), 1)
}

func TestStopVM(t *testing.T) {
	cloud := fake.New()
	cloud.AddVM("vm-a", "Standard_B2s", provider.StateRunning)
	cloud.AddVM("vm-b", "Standard_B2s", provider.StateDeallocated)
	ctx, rec := newTestContext(t, config.WithCompute(cloud))

	require.NoError(t, StopVMs(ctx, []string{"vm-a", "vm-b"}))

	assert.Equal(t, provider.StateDeallocated, vmState(t, cloud, "vm-a").State)
	assert.Equal(t, 1, cloud.Calls("DeallocateVM"))
	assert.Len(t, rec.messages(events.KindInformation, "vm-b is already deallocated"), 1)
}

func TestStopVMs_Empty(t *testing.T) {
	ctx, _ := newTestContext(t, config.WithCompute(fake.New()))

	assert.NoError(t, StopVMs(ctx, nil))
}
