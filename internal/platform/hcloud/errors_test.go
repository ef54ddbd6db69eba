package hcloud

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/flexprov/internal/provider"
)

func TestIsResourceLocked(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: false,
		},
		{
			name:     "hcloud locked error",
			err:      hcloud.Error{Code: hcloud.ErrorCodeLocked, Message: "resource is locked"},
			expected: true,
		},
		{
			name:     "hcloud conflict error",
			err:      hcloud.Error{Code: hcloud.ErrorCodeConflict, Message: "conflict occurred"},
			expected: true,
		},
		{
			name:     "rate limit",
			err:      hcloud.Error{Code: hcloud.ErrorCodeRateLimitExceeded, Message: "slow down"},
			expected: true,
		},
		{
			name:     "wrapped locked error",
			err:      fmt.Errorf("poweroff: %w", hcloud.Error{Code: hcloud.ErrorCodeLocked}),
			expected: true,
		},
		{
			name:     "hcloud not found error (not locked)",
			err:      hcloud.Error{Code: hcloud.ErrorCodeNotFound, Message: "not found"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isResourceLocked(tt.err)
			if result != tt.expected {
				t.Errorf("isResourceLocked(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := translate(provider.KindVirtualMachine, "vm", hcloud.Error{Code: hcloud.ErrorCodeNotFound})
		if !provider.IsNotFound(err) {
			t.Errorf("expected not-found, got %v", err)
		}
	})

	t.Run("api error becomes fault detail", func(t *testing.T) {
		err := translate(provider.KindReservedIP, "ip", hcloud.Error{
			Code:    hcloud.ErrorCodeInvalidInput,
			Message: "invalid input in field 'name'",
		})
		fault, ok := provider.AsFault(err)
		if !ok {
			t.Fatalf("expected fault detail, got %v", err)
		}
		if fault.Code != string(hcloud.ErrorCodeInvalidInput) {
			t.Errorf("unexpected code %q", fault.Code)
		}
		if fault.Message != "invalid input in field 'name'" {
			t.Errorf("expected API message, got %q", fault.Message)
		}
	})

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("connection reset")
		if got := translate(provider.KindVirtualMachine, "vm", plain); got != plain {
			t.Errorf("expected passthrough, got %v", got)
		}
	})
}

func TestServerState(t *testing.T) {
	tests := map[hcloud.ServerStatus]string{
		hcloud.ServerStatusRunning:      provider.StateRunning,
		hcloud.ServerStatusOff:          provider.StateStopped,
		hcloud.ServerStatusStarting:     provider.StateStarting,
		hcloud.ServerStatusInitializing: provider.StateStarting,
		hcloud.ServerStatusStopping:     provider.StateStopping,
		hcloud.ServerStatusMigrating:    provider.StateUnknown,
	}
	for status, want := range tests {
		if got := serverState(status); got != want {
			t.Errorf("serverState(%q) = %q, want %q", status, got, want)
		}
	}
}
