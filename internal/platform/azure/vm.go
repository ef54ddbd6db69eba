package azure

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v2"

	"github.com/imamik/flexprov/internal/provider"
)

const powerStatePrefix = "PowerState/"

// powerState maps instance view status codes to provider states.
func powerState(statuses []*armcompute.InstanceViewStatus) string {
	for _, s := range statuses {
		if s == nil {
			continue
		}
		code := deref(s.Code)
		if !strings.HasPrefix(code, powerStatePrefix) {
			continue
		}
		switch strings.TrimPrefix(code, powerStatePrefix) {
		case "running":
			return provider.StateRunning
		case "starting":
			return provider.StateStarting
		case "stopping", "deallocating":
			return provider.StateStopping
		case "stopped":
			return provider.StateStopped
		case "deallocated":
			return provider.StateDeallocated
		}
	}
	return provider.StateUnknown
}

func vmResource(vm *armcompute.VirtualMachine) *provider.Resource {
	r := &provider.Resource{
		Kind:     provider.KindVirtualMachine,
		Name:     deref(vm.Name),
		ID:       deref(vm.ID),
		Location: deref(vm.Location),
		State:    provider.StateUnknown,
	}
	if p := vm.Properties; p != nil {
		if p.HardwareProfile != nil {
			r.SKU = string(deref(p.HardwareProfile.VMSize))
		}
		if p.InstanceView != nil {
			r.State = powerState(p.InstanceView.Statuses)
		}
	}
	r.ResourceGroup = resourceGroupOf(r.ID)
	return r
}

// GetVM returns the VM with its power state.
func (c *Client) GetVM(ctx context.Context, name string) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindVirtualMachine, name, func() error {
		resp, err := c.vms.Get(ctx, c.resourceGroup, name, &armcompute.VirtualMachinesClientGetOptions{
			Expand: to.Ptr(armcompute.InstanceViewTypesInstanceView),
		})
		if err != nil {
			return err
		}
		out = vmResource(&resp.VirtualMachine)
		return nil
	})
	return out, err
}

// UpdateVMSize changes the VM size and waits for the update.
func (c *Client) UpdateVMSize(ctx context.Context, name, size string) error {
	return c.call(ctx, provider.KindVirtualMachine, name, func() error {
		poller, err := c.vms.BeginUpdate(ctx, c.resourceGroup, name, armcompute.VirtualMachineUpdate{
			Properties: &armcompute.VirtualMachineProperties{
				HardwareProfile: &armcompute.HardwareProfile{
					VMSize: to.Ptr(armcompute.VirtualMachineSizeTypes(size)),
				},
			},
		}, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err
	})
}

// StartVM starts the VM and waits for the operation.
func (c *Client) StartVM(ctx context.Context, name string) error {
	return c.call(ctx, provider.KindVirtualMachine, name, func() error {
		poller, err := c.vms.BeginStart(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err
	})
}

// DeallocateVM stops the VM and releases its compute allocation.
func (c *Client) DeallocateVM(ctx context.Context, name string) error {
	return c.call(ctx, provider.KindVirtualMachine, name, func() error {
		poller, err := c.vms.BeginDeallocate(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err
	})
}
