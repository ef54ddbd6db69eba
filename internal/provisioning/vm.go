package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/util/async"
	"github.com/imamik/flexprov/internal/util/retry"
)

// ResizeVM changes the size of an existing VM, starts it again when it is
// stopped or deallocated and waits until it reports running. The wait is
// bounded by Timeouts.VMReady; zero waits indefinitely.
func ResizeVM(ctx *Context, name, size string) error {
	compute, err := ctx.compute()
	if err != nil {
		return err
	}
	vm, err := compute.GetVM(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get virtual machine %q: %w", name, err)
	}

	progress := ctx.Emitter.StartProgress(events.Medium, fmt.Sprintf("Resizing %s to %s", name, size))
	defer progress.Done()

	if strings.EqualFold(vm.SKU, size) {
		ctx.Emitter.Info(events.Low, fmt.Sprintf("%s already has size %s", name, size))
	} else {
		if err := compute.UpdateVMSize(ctx, name, size); err != nil {
			return fmt.Errorf("failed to resize virtual machine %q: %w", name, err)
		}
		ctx.Logger.Debug().Str("vm", name).Str("from", vm.SKU).Str("to", size).Msg("size updated")
	}
	progress.Report(40)

	vm, err = compute.GetVM(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get virtual machine %q: %w", name, err)
	}
	if vm.Stopped() {
		if err := compute.StartVM(ctx, name); err != nil {
			return fmt.Errorf("failed to start virtual machine %q: %w", name, err)
		}
	}
	progress.Report(70)

	if err := waitRunning(ctx, compute, name); err != nil {
		return err
	}
	progress.Report(100)
	ctx.Emitter.Info(events.High, fmt.Sprintf("%s is running with size %s", name, size))
	return nil
}

// waitRunning polls until the VM state is exactly running.
func waitRunning(ctx *Context, compute provider.VirtualMachines, name string) error {
	t := ctx.Runtime.Timeouts
	err := retry.Poll(ctx, ctx.Runtime.Clock, t.VMPollInterval, t.VMReady, func(c context.Context) (bool, error) {
		vm, err := compute.GetVM(c, name)
		if err != nil {
			return false, err
		}
		ctx.Logger.Debug().Str("vm", name).Str("state", vm.State).Msg("waiting for running")
		return vm.State == provider.StateRunning, nil
	})
	if errors.Is(err, retry.ErrExhausted) {
		return fmt.Errorf("virtual machine %q did not report running, manual intervention required: %w", name, err)
	}
	if err != nil {
		return fmt.Errorf("failed waiting for virtual machine %q: %w", name, err)
	}
	return nil
}

// StopVM deallocates a VM. A VM that is already stopped is left alone.
func StopVM(ctx *Context, name string) error {
	compute, err := ctx.compute()
	if err != nil {
		return err
	}
	vm, err := compute.GetVM(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get virtual machine %q: %w", name, err)
	}
	if vm.State == provider.StateDeallocated {
		ctx.Emitter.Info(events.Low, fmt.Sprintf("%s is already deallocated", name))
		return nil
	}
	if err := compute.DeallocateVM(ctx, name); err != nil {
		return fmt.Errorf("failed to deallocate virtual machine %q: %w", name, err)
	}
	ctx.Emitter.Info(events.High, fmt.Sprintf("%s is deallocated", name))
	return nil
}

// ResizeVMs resizes every VM concurrently. One VM failing does not stop
// the others; all failures are returned in an *async.BatchError.
func ResizeVMs(ctx *Context, names []string, size string) error {
	return vmBatch(ctx, names, func(c *Context, name string) error {
		return ResizeVM(c, name, size)
	})
}

// StopVMs deallocates every VM concurrently with the failure semantics of
// ResizeVMs.
func StopVMs(ctx *Context, names []string) error {
	return vmBatch(ctx, names, StopVM)
}

func vmBatch(ctx *Context, names []string, fn func(*Context, string) error) error {
	tasks := make([]async.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, async.Task{
			Name: name,
			Func: func(c context.Context) error {
				err := fn(ctx.WithContext(c), name)
				if err != nil {
					ctx.Emitter.Error(fmt.Sprintf("%s failed", name), err)
				}
				return err
			},
		})
	}
	return async.RunAll(ctx, tasks)
}
