package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/servicebus/armservicebus"

	"github.com/imamik/flexprov/internal/provider"
)

func namespaceResource(ns *armservicebus.SBNamespace) *provider.Resource {
	r := &provider.Resource{
		Kind:     provider.KindServiceBusNamespace,
		Name:     deref(ns.Name),
		ID:       deref(ns.ID),
		Location: deref(ns.Location),
	}
	if ns.SKU != nil {
		r.SKU = string(deref(ns.SKU.Name))
	}
	if ns.Properties != nil {
		r.State = deref(ns.Properties.Status)
		r.Address = deref(ns.Properties.ServiceBusEndpoint)
	}
	r.ResourceGroup = resourceGroupOf(r.ID)
	return r
}

// GetNamespace returns the named Service Bus namespace.
func (c *Client) GetNamespace(ctx context.Context, name string) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindServiceBusNamespace, name, func() error {
		resp, err := c.namespaces.Get(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return err
		}
		out = namespaceResource(&resp.SBNamespace)
		return nil
	})
	return out, err
}

// CreateNamespace creates a Service Bus namespace; the SKU defaults to
// Standard.
func (c *Client) CreateNamespace(ctx context.Context, spec provider.NamespaceSpec) (*provider.Resource, error) {
	sku := armservicebus.SKUNameStandard
	if spec.SKU != "" {
		sku = armservicebus.SKUName(spec.SKU)
	}
	location := spec.Location
	if location == "" {
		location = c.location
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindServiceBusNamespace, spec.Name, func() error {
		poller, err := c.namespaces.BeginCreateOrUpdate(ctx, c.resourceGroup, spec.Name, armservicebus.SBNamespace{
			Location: to.Ptr(location),
			SKU: &armservicebus.SBSKU{
				Name: to.Ptr(sku),
				Tier: to.Ptr(armservicebus.SKUTier(sku)),
			},
			Tags: tags(spec.Labels),
		}, nil)
		if err != nil {
			return err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return err
		}
		out = namespaceResource(&resp.SBNamespace)
		return nil
	})
	return out, err
}

// DeleteNamespace deletes the namespace and waits for the operation. A
// namespace that is already gone yields a not-found error.
func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	return c.call(ctx, provider.KindServiceBusNamespace, name, func() error {
		poller, err := c.namespaces.BeginDelete(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err
	})
}
