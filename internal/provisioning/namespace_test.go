package provisioning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/provider/fake"
	"github.com/imamik/flexprov/internal/util/retry"
)

func seedNamespace(cloud *fake.Cloud, name string) {
	cloud.Seed(&provider.Resource{Kind: provider.KindServiceBusNamespace, Name: name, SKU: "Standard"})
}

func TestDeleteServiceBusNamespace_Immediate(t *testing.T) {
	cloud := fake.New()
	seedNamespace(cloud, "flex-events-test")
	ctx, rec := newTestContext(t, config.WithCloud(cloud))

	require.NoError(t, DeleteServiceBusNamespace(ctx, "flex-events-test", false))

	assert.Empty(t, cloud.Resources(provider.KindServiceBusNamespace))
	assert.Equal(t, 1, cloud.Calls("DeleteNamespace"))
	assert.Len(t, rec.messages(events.KindInformation, "flex-events-test deleted"), 1)
}

func TestDeleteServiceBusNamespace_LingersWithinBudget(t *testing.T) {
	cloud := fake.New()
	cloud.NamespaceDeleteLag = 1
	seedNamespace(cloud, "flex-events-test")
	ctx, _ := newTestContext(t, config.WithCloud(cloud))

	require.NoError(t, DeleteServiceBusNamespace(ctx, "flex-events-test", false))

	assert.Equal(t, 2, cloud.Calls("DeleteNamespace"))
	assert.Empty(t, cloud.Resources(provider.KindServiceBusNamespace))
}

func TestDeleteServiceBusNamespace_Exhausted(t *testing.T) {
	cloud := fake.New()
	cloud.NamespaceDeleteLag = 10
	seedNamespace(cloud, "flex-events-test")
	ctx, _ := newTestContext(t, config.WithCloud(cloud))

	err := DeleteServiceBusNamespace(ctx, "flex-events-test", false)

	require.ErrorIs(t, err, retry.ErrExhausted)
	assert.Contains(t, err.Error(), "manual intervention required")
	assert.Equal(t, 3, cloud.Calls("DeleteNamespace"))
}

func TestDeleteServiceBusNamespace_DeleteErrorsAreRetried(t *testing.T) {
	cloud := fake.New()
	seedNamespace(cloud, "flex-events-test")
	boom := errors.New("namespace is busy")
	cloud.Fail("DeleteNamespace", "flex-events-test", boom)
	ctx, rec := newTestContext(t, config.WithCloud(cloud))

	err := DeleteServiceBusNamespace(ctx, "flex-events-test", false)

	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, retry.ErrExhausted)
	assert.Len(t, rec.messages(events.KindWarning, "attempt"), 3)
	assert.Len(t, rec.messages(events.KindWarning, "(attempt 3 of 3)"), 1)
}

func TestDeleteServiceBusNamespace_Missing(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		wantErr bool
	}{
		{name: "force", force: true},
		{name: "no force", force: false, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloud := fake.New()
			ctx, rec := newTestContext(t, config.WithCloud(cloud))

			err := DeleteServiceBusNamespace(ctx, "ghost", tt.force)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, provider.IsNotFound(err))
			} else {
				require.NoError(t, err)
				assert.Len(t, rec.messages(events.KindWarning, "ghost does not exist"), 1)
			}
			assert.Equal(t, 0, cloud.Calls("DeleteNamespace"))
		})
	}
}
