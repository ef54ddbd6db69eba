package azure

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/provider"
)

func testClient() *Client {
	return &Client{
		resourceGroup: "rg",
		location:      "westeurope",
		timeouts:      &config.Timeouts{RetryMaxAttempts: 2, RetryInitialDelay: time.Millisecond},
		logger:        zerolog.Nop(),
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, translate(provider.KindWebSite, "x", nil))
	})

	t.Run("404 becomes not found", func(t *testing.T) {
		t.Parallel()
		err := translate(provider.KindWebSite, "site", &azcore.ResponseError{StatusCode: http.StatusNotFound})
		assert.True(t, provider.IsNotFound(err))
		assert.Contains(t, err.Error(), `"site"`)
	})

	t.Run("other responses become fault details", func(t *testing.T) {
		t.Parallel()
		raw := &azcore.ResponseError{StatusCode: http.StatusConflict, ErrorCode: "StorageAccountAlreadyTaken"}
		err := translate(provider.KindStorageAccount, "acct", raw)

		fault, ok := provider.AsFault(err)
		require.True(t, ok)
		assert.Equal(t, "StorageAccountAlreadyTaken", fault.Code)
		assert.Equal(t, "409", fault.Details["status"])
		assert.Equal(t, provider.KindStorageAccount, fault.Kind)
		assert.ErrorIs(t, err, raw)
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		t.Parallel()
		plain := errors.New("dial tcp: timeout")
		assert.Equal(t, plain, translate(provider.KindVirtualMachine, "vm", plain))
	})
}

func TestIsThrottled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"too many requests", &azcore.ResponseError{StatusCode: http.StatusTooManyRequests}, true},
		{"unavailable", &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}, true},
		{"operation in progress", &azcore.ResponseError{StatusCode: http.StatusConflict, ErrorCode: "AnotherOperationInProgress"}, true},
		{"plain conflict", &azcore.ResponseError{StatusCode: http.StatusConflict, ErrorCode: "Conflict"}, false},
		{"bad request", &azcore.ResponseError{StatusCode: http.StatusBadRequest}, false},
		{"not an ARM error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isThrottled(tt.err))
		})
	}
}

func TestCallRetriesThrottledResponses(t *testing.T) {
	t.Parallel()

	c := testClient()
	calls := 0
	err := c.call(context.Background(), provider.KindSQLServer, "srv", func() error {
		calls++
		if calls < 2 {
			return &azcore.ResponseError{StatusCode: http.StatusTooManyRequests}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCallDoesNotRetryOtherErrors(t *testing.T) {
	t.Parallel()

	c := testClient()
	calls := 0
	err := c.call(context.Background(), provider.KindSQLServer, "srv", func() error {
		calls++
		return &azcore.ResponseError{StatusCode: http.StatusNotFound}
	})

	assert.Equal(t, 1, calls)
	assert.True(t, provider.IsNotFound(err))
}

func TestPowerState(t *testing.T) {
	t.Parallel()

	status := func(codes ...string) []*armcompute.InstanceViewStatus {
		out := make([]*armcompute.InstanceViewStatus, 0, len(codes))
		for _, c := range codes {
			out = append(out, &armcompute.InstanceViewStatus{Code: to.Ptr(c)})
		}
		return out
	}

	assert.Equal(t, provider.StateRunning, powerState(status("ProvisioningState/succeeded", "PowerState/running")))
	assert.Equal(t, provider.StateDeallocated, powerState(status("PowerState/deallocated")))
	assert.Equal(t, provider.StateStopping, powerState(status("PowerState/deallocating")))
	assert.Equal(t, provider.StateUnknown, powerState(status("ProvisioningState/updating")))
	assert.Equal(t, provider.StateUnknown, powerState(nil))
}

func TestResourceGroupOf(t *testing.T) {
	t.Parallel()

	id := "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/shared-rg/providers/Microsoft.Storage/storageAccounts/acct"
	assert.Equal(t, "shared-rg", resourceGroupOf(id))
	assert.Equal(t, "", resourceGroupOf(""))
	assert.Equal(t, "acct", nameOf(id))
}

func TestAppSettingsAreSorted(t *testing.T) {
	t.Parallel()

	pairs := appSettings(map[string]string{"b": "2", "a": "1"})
	require.Len(t, pairs, 2)
	assert.Equal(t, "a", *pairs[0].Name)
	assert.Equal(t, "2", *pairs[1].Value)
}

func TestTags(t *testing.T) {
	t.Parallel()

	assert.Nil(t, tags(nil))
	got := tags(map[string]string{"system": "flex", "branch": "main"})
	assert.Equal(t, "flex", *got["system"])
	assert.Equal(t, "main", *got["branch"])
}

func TestNewClientRequiresSettings(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Options{ResourceGroup: "rg"})
	assert.True(t, config.IsConfigurationError(err))

	_, err = NewClient(Options{SubscriptionID: "sub"})
	assert.True(t, config.IsConfigurationError(err))
}
