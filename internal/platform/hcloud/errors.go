package hcloud

import (
	"context"
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/util/retry"
)

// isResourceLocked checks if an error indicates a resource is locked.
// Locked resources typically occur while another action runs on them.
// These errors are retryable.
func isResourceLocked(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeLocked,
		hcloud.ErrorCodeConflict,
		hcloud.ErrorCodeResourceLocked,
		hcloud.ErrorCodeResourceUnavailable,
		hcloud.ErrorCodeRateLimitExceeded,
	)
}

// isHCloudErrorCode checks if the error is an hcloud API error with one of the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeNotFound)
}

// translate maps an hcloud error to the provider error taxonomy.
func translate(kind provider.Kind, name string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return provider.NotFound(kind, name)
	}
	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		return &provider.FaultDetail{
			Kind:    kind,
			Target:  name,
			Code:    string(hcloudErr.Code),
			Message: hcloudErr.Message,
			Err:     err,
		}
	}
	return err
}

// call runs fn, retrying locked and rate-limited responses with backoff.
func (c *Client) call(ctx context.Context, kind provider.Kind, name string, fn func() error) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		err := fn()
		if err == nil || isResourceLocked(err) {
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
	c.logger.Debug().Str("kind", string(kind)).Str("name", name).Err(err).Msg("hcloud call failed")
	return translate(kind, name, err)
}
