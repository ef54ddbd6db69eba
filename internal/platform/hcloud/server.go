package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/flexprov/internal/provider"
)

// serverState maps a server status to a provider state.
func serverState(status hcloud.ServerStatus) string {
	switch status {
	case hcloud.ServerStatusRunning:
		return provider.StateRunning
	case hcloud.ServerStatusStarting, hcloud.ServerStatusInitializing:
		return provider.StateStarting
	case hcloud.ServerStatusStopping:
		return provider.StateStopping
	case hcloud.ServerStatusOff:
		return provider.StateStopped
	default:
		return provider.StateUnknown
	}
}

func serverResource(s *hcloud.Server) *provider.Resource {
	r := &provider.Resource{
		Kind:  provider.KindVirtualMachine,
		Name:  s.Name,
		ID:    fmt.Sprintf("%d", s.ID),
		State: serverState(s.Status),
	}
	if s.ServerType != nil {
		r.SKU = s.ServerType.Name
	}
	if s.Datacenter != nil && s.Datacenter.Location != nil {
		r.Location = s.Datacenter.Location.Name
	}
	if ip := s.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		r.Address = ip.String()
	}
	return r
}

// getServer returns the named server or a not-found error.
func (c *Client) getServer(ctx context.Context, name string) (*hcloud.Server, error) {
	var server *hcloud.Server
	err := c.call(ctx, provider.KindVirtualMachine, name, func() error {
		var err error
		server, _, err = c.client.Server.Get(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, provider.NotFound(provider.KindVirtualMachine, name)
	}
	return server, nil
}

// GetVM returns the server with its power state.
func (c *Client) GetVM(ctx context.Context, name string) (*provider.Resource, error) {
	server, err := c.getServer(ctx, name)
	if err != nil {
		return nil, err
	}
	return serverResource(server), nil
}

// UpdateVMSize changes the server type. A running server is powered off
// first and left off; callers start it again.
func (c *Client) UpdateVMSize(ctx context.Context, name, size string) error {
	server, err := c.getServer(ctx, name)
	if err != nil {
		return err
	}

	var serverType *hcloud.ServerType
	err = c.call(ctx, provider.KindVirtualMachine, name, func() error {
		var err error
		serverType, _, err = c.client.ServerType.Get(ctx, size)
		return err
	})
	if err != nil {
		return err
	}
	if serverType == nil {
		return &provider.FaultDetail{
			Kind:    provider.KindVirtualMachine,
			Target:  name,
			Code:    string(hcloud.ErrorCodeInvalidServerType),
			Message: fmt.Sprintf("server type %q does not exist", size),
		}
	}

	if server.Status != hcloud.ServerStatusOff {
		if err := c.runAction(ctx, name, "poweroff", func() (*hcloud.Action, *hcloud.Response, error) {
			return c.client.Server.Poweroff(ctx, server)
		}); err != nil {
			return err
		}
	}

	return c.runAction(ctx, name, "change type", func() (*hcloud.Action, *hcloud.Response, error) {
		return c.client.Server.ChangeType(ctx, server, hcloud.ServerChangeTypeOpts{
			ServerType:  serverType,
			UpgradeDisk: false,
		})
	})
}

// StartVM powers the server on.
func (c *Client) StartVM(ctx context.Context, name string) error {
	server, err := c.getServer(ctx, name)
	if err != nil {
		return err
	}
	if server.Status == hcloud.ServerStatusRunning {
		return nil
	}
	return c.runAction(ctx, name, "poweron", func() (*hcloud.Action, *hcloud.Response, error) {
		return c.client.Server.Poweron(ctx, server)
	})
}

// DeallocateVM powers the server off.
func (c *Client) DeallocateVM(ctx context.Context, name string) error {
	server, err := c.getServer(ctx, name)
	if err != nil {
		return err
	}
	if server.Status == hcloud.ServerStatusOff {
		return nil
	}
	return c.runAction(ctx, name, "poweroff", func() (*hcloud.Action, *hcloud.Response, error) {
		return c.client.Server.Poweroff(ctx, server)
	})
}

// runAction triggers a server action and waits for it to finish.
func (c *Client) runAction(ctx context.Context, name, what string, trigger func() (*hcloud.Action, *hcloud.Response, error)) error {
	var action *hcloud.Action
	err := c.call(ctx, provider.KindVirtualMachine, name, func() error {
		var err error
		action, _, err = trigger()
		return err
	})
	if err != nil {
		return err
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for %s of %q: %w", what, name, translate(provider.KindVirtualMachine, name, err))
	}
	c.logger.Debug().Str("server", name).Str("action", what).Msg("server action finished")
	return nil
}
