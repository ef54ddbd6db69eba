package config

import (
	"fmt"
	"time"

	"github.com/vrischmann/envconfig"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	VMReady                 time.Duration `envconfig:"FLEXPROV_TIMEOUT_VM_READY,default=0s"`          // Wait for a resized VM to report running; 0 waits indefinitely
	VMPollInterval          time.Duration `envconfig:"FLEXPROV_VM_POLL_INTERVAL,default=15s"`         // Interval between VM state checks
	NamespaceDeleteAttempts int           `envconfig:"FLEXPROV_NAMESPACE_DELETE_ATTEMPTS,default=10"` // Attempts to delete a Service Bus namespace
	NamespaceDeleteDelay    time.Duration `envconfig:"FLEXPROV_NAMESPACE_DELETE_DELAY,default=30s"`   // Fixed delay between namespace delete attempts
	RetryMaxAttempts        int           `envconfig:"FLEXPROV_RETRY_MAX_ATTEMPTS,default=5"`         // Maximum number of retry attempts for throttled API calls
	RetryInitialDelay       time.Duration `envconfig:"FLEXPROV_RETRY_INITIAL_DELAY,default=1s"`       // Initial delay between retries
}

// DefaultTimeouts returns the values used when no variable is set.
func DefaultTimeouts() *Timeouts {
	return &Timeouts{
		VMPollInterval:          15 * time.Second,
		NamespaceDeleteAttempts: 10,
		NamespaceDeleteDelay:    30 * time.Second,
		RetryMaxAttempts:        5,
		RetryInitialDelay:       time.Second,
	}
}

// LoadTimeouts loads timeout configuration from environment variables.
// Unset variables take their defaults. A value that does not parse, a
// negative duration, a zero poll interval or an attempt count below one
// is a ConfigurationError.
//
// Environment Variables:
//   - FLEXPROV_TIMEOUT_VM_READY (default: 0, no timeout)
//   - FLEXPROV_VM_POLL_INTERVAL (default: 15s)
//   - FLEXPROV_NAMESPACE_DELETE_ATTEMPTS (default: 10)
//   - FLEXPROV_NAMESPACE_DELETE_DELAY (default: 30s)
//   - FLEXPROV_RETRY_MAX_ATTEMPTS (default: 5)
//   - FLEXPROV_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() (*Timeouts, error) {
	var t Timeouts
	if err := envconfig.Init(&t); err != nil {
		return nil, &ConfigurationError{Field: "timeouts", Reason: "invalid environment value", Err: err}
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Timeouts) validate() error {
	durations := []struct {
		env string
		val time.Duration
	}{
		{"FLEXPROV_TIMEOUT_VM_READY", t.VMReady},
		{"FLEXPROV_NAMESPACE_DELETE_DELAY", t.NamespaceDeleteDelay},
		{"FLEXPROV_RETRY_INITIAL_DELAY", t.RetryInitialDelay},
	}
	for _, d := range durations {
		if d.val < 0 {
			return Invalid(d.env, fmt.Sprintf("must not be negative, got %s", d.val))
		}
	}
	if t.VMPollInterval <= 0 {
		return Invalid("FLEXPROV_VM_POLL_INTERVAL", fmt.Sprintf("must be positive, got %s", t.VMPollInterval))
	}
	if t.NamespaceDeleteAttempts < 1 {
		return Invalid("FLEXPROV_NAMESPACE_DELETE_ATTEMPTS", fmt.Sprintf("must be at least 1, got %d", t.NamespaceDeleteAttempts))
	}
	if t.RetryMaxAttempts < 1 {
		return Invalid("FLEXPROV_RETRY_MAX_ATTEMPTS", fmt.Sprintf("must be at least 1, got %d", t.RetryMaxAttempts))
	}
	return nil
}
