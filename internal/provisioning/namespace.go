package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/util/retry"
)

// errNamespaceExists marks a delete attempt after which the namespace is
// still visible.
var errNamespaceExists = errors.New("namespace still exists")

// DeleteServiceBusNamespace deletes the namespace and retries until it is
// gone, with Timeouts.NamespaceDeleteAttempts attempts spaced by
// Timeouts.NamespaceDeleteDelay. A namespace that does not exist is an
// error unless force is set.
func DeleteServiceBusNamespace(ctx *Context, name string, force bool) error {
	cloud, err := ctx.cloud()
	if err != nil {
		return err
	}

	if _, err := cloud.GetNamespace(ctx, name); err != nil {
		if provider.IsNotFound(err) && force {
			ctx.Emitter.Warn(fmt.Sprintf("Service Bus namespace %s does not exist", name))
			return nil
		}
		return fmt.Errorf("failed to get service bus namespace %q: %w", name, err)
	}

	t := ctx.Runtime.Timeouts
	attempt := 0
	err = retry.WithExponentialBackoff(ctx, func() error {
		attempt++
		if err := cloud.DeleteNamespace(ctx, name); err != nil && !provider.IsNotFound(err) {
			ctx.Emitter.Warn(fmt.Sprintf("Deleting %s failed (attempt %d of %d): %v", name, attempt, t.NamespaceDeleteAttempts, err))
			return err
		}
		_, err := cloud.GetNamespace(ctx, name)
		switch {
		case err == nil:
			return errNamespaceExists
		case provider.IsNotFound(err):
			return nil
		default:
			return err
		}
	},
		retry.Fixed(t.NamespaceDeleteAttempts, t.NamespaceDeleteDelay),
		retry.WithClock(ctx.Runtime.Clock))

	if errors.Is(err, retry.ErrExhausted) {
		return fmt.Errorf("service bus namespace %q could not be deleted, manual intervention required: %w", name, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete service bus namespace %q: %w", name, err)
	}
	ctx.Emitter.Info(events.High, fmt.Sprintf("Service Bus namespace %s deleted", name))
	return nil
}
