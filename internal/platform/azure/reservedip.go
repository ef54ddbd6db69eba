package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	"github.com/imamik/flexprov/internal/provider"
)

func reservedIPResource(ip *armnetwork.PublicIPAddress) *provider.Resource {
	r := &provider.Resource{
		Kind:     provider.KindReservedIP,
		Name:     deref(ip.Name),
		ID:       deref(ip.ID),
		Location: deref(ip.Location),
	}
	if ip.SKU != nil {
		r.SKU = string(deref(ip.SKU.Name))
	}
	if ip.Properties != nil {
		r.Address = deref(ip.Properties.IPAddress)
		r.State = string(deref(ip.Properties.ProvisioningState))
	}
	r.ResourceGroup = resourceGroupOf(r.ID)
	return r
}

// GetReservedIP returns the named static public IP address.
func (c *Client) GetReservedIP(ctx context.Context, name string) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindReservedIP, name, func() error {
		resp, err := c.publicIPs.Get(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return err
		}
		out = reservedIPResource(&resp.PublicIPAddress)
		return nil
	})
	return out, err
}

// CreateReservedIP allocates a static Standard public IP address.
func (c *Client) CreateReservedIP(ctx context.Context, spec provider.ReservedIPSpec) (*provider.Resource, error) {
	location := spec.Location
	if location == "" {
		location = c.location
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindReservedIP, spec.Name, func() error {
		poller, err := c.publicIPs.BeginCreateOrUpdate(ctx, c.resourceGroup, spec.Name, armnetwork.PublicIPAddress{
			Location: to.Ptr(location),
			Tags:     tags(spec.Labels),
			SKU:      &armnetwork.PublicIPAddressSKU{Name: to.Ptr(armnetwork.PublicIPAddressSKUNameStandard)},
			Properties: &armnetwork.PublicIPAddressPropertiesFormat{
				PublicIPAllocationMethod: to.Ptr(armnetwork.IPAllocationMethodStatic),
			},
		}, nil)
		if err != nil {
			return err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return err
		}
		out = reservedIPResource(&resp.PublicIPAddress)
		return nil
	})
	return out, err
}
