package azure

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/util/retry"
)

// responseError extracts the ARM response error from err.
func responseError(err error) (*azcore.ResponseError, bool) {
	var re *azcore.ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// isNotFound reports whether err is an ARM 404.
func isNotFound(err error) bool {
	re, ok := responseError(err)
	return ok && re.StatusCode == http.StatusNotFound
}

// isThrottled reports whether err is a retryable ARM response: throttling
// or a conflicting operation still in progress.
func isThrottled(err error) bool {
	re, ok := responseError(err)
	if !ok {
		return false
	}
	switch re.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	case http.StatusConflict:
		return re.ErrorCode == "AnotherOperationInProgress" || re.ErrorCode == "OperationNotAllowed"
	}
	return false
}

// translate maps an ARM error to the provider error taxonomy.
func translate(kind provider.Kind, name string, err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return provider.NotFound(kind, name)
	}
	if re, ok := responseError(err); ok {
		return &provider.FaultDetail{
			Kind:    kind,
			Target:  name,
			Code:    re.ErrorCode,
			Message: http.StatusText(re.StatusCode),
			Details: map[string]string{"status": strconv.Itoa(re.StatusCode)},
			Err:     err,
		}
	}
	return err
}

// call runs fn, retrying throttled responses with backoff. Other errors
// are returned on the first attempt.
func (c *Client) call(ctx context.Context, kind provider.Kind, name string, fn func() error) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		err := fn()
		if err == nil || isThrottled(err) {
			return err
		}
		return retry.Fatal(err)
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err == nil {
		return nil
	}
	var fatal *retry.FatalError
	if errors.As(err, &fatal) {
		err = fatal.Err
	}
	c.logger.Debug().Str("kind", string(kind)).Str("name", name).Err(err).Msg("azure call failed")
	return translate(kind, name, err)
}

func tags(labels map[string]string) map[string]*string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]*string, len(labels))
	for k, v := range labels {
		out[k] = &v
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
