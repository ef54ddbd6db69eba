package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"
)

// Condition reports whether the awaited state has been reached. A non-nil
// error aborts polling.
type Condition func(ctx context.Context) (bool, error)

// Poll evaluates cond immediately and then every interval until it returns
// true, returns an error, or ctx is done. A positive timeout bounds the total
// wait; on expiry the returned error wraps ErrExhausted. A zero timeout waits
// indefinitely.
func Poll(ctx context.Context, clk clock.Clock, interval, timeout time.Duration, cond Condition) error {
	if clk == nil {
		clk = clock.WallClock
	}
	start := clk.Now()

	for {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if timeout > 0 && clk.Now().Sub(start) >= timeout {
			return fmt.Errorf("%w: condition not met within %s", ErrExhausted, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clk.After(interval):
		}
	}
}
