package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/flexprov/internal/provider"
)

func floatingIPResource(fip *hcloud.FloatingIP) *provider.Resource {
	r := &provider.Resource{
		Kind: provider.KindReservedIP,
		Name: fip.Name,
		ID:   fmt.Sprintf("%d", fip.ID),
		SKU:  string(fip.Type),
	}
	if fip.IP != nil {
		r.Address = fip.IP.String()
	}
	if fip.HomeLocation != nil {
		r.Location = fip.HomeLocation.Name
	}
	if fip.Server != nil {
		r.Parent = fip.Server.Name
	}
	return r
}

// GetReservedIP returns the named floating IP.
func (c *Client) GetReservedIP(ctx context.Context, name string) (*provider.Resource, error) {
	var fip *hcloud.FloatingIP
	err := c.call(ctx, provider.KindReservedIP, name, func() error {
		var err error
		fip, _, err = c.client.FloatingIP.Get(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	if fip == nil {
		return nil, provider.NotFound(provider.KindReservedIP, name)
	}
	return floatingIPResource(fip), nil
}

// CreateReservedIP creates an IPv4 floating IP homed at the spec's location,
// or the client's default location.
func (c *Client) CreateReservedIP(ctx context.Context, spec provider.ReservedIPSpec) (*provider.Resource, error) {
	location := spec.Location
	if location == "" {
		location = c.location
	}

	var loc *hcloud.Location
	err := c.call(ctx, provider.KindReservedIP, spec.Name, func() error {
		var err error
		loc, _, err = c.client.Location.Get(ctx, location)
		return err
	})
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, &provider.FaultDetail{
			Kind:    provider.KindReservedIP,
			Target:  spec.Name,
			Code:    string(hcloud.ErrorCodeInvalidInput),
			Message: fmt.Sprintf("location %q does not exist", location),
		}
	}

	name := spec.Name
	opts := hcloud.FloatingIPCreateOpts{
		Name:         &name,
		Type:         hcloud.FloatingIPTypeIPv4,
		HomeLocation: loc,
		Labels:       spec.Labels,
	}

	var res hcloud.FloatingIPCreateResult
	err = c.call(ctx, provider.KindReservedIP, spec.Name, func() error {
		var err error
		res, _, err = c.client.FloatingIP.Create(ctx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Action != nil {
		if err := c.client.Action.WaitFor(ctx, res.Action); err != nil {
			return nil, fmt.Errorf("failed to wait for floating IP %q: %w", spec.Name, err)
		}
	}
	return floatingIPResource(res.FloatingIP), nil
}
