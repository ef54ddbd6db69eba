package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/imamik/flexprov/internal/provider"
)

func cloudServiceFromGroup(g armresources.ResourceGroup) *provider.Resource {
	return &provider.Resource{
		Kind:          provider.KindCloudService,
		Name:          deref(g.Name),
		ID:            deref(g.ID),
		Location:      deref(g.Location),
		ResourceGroup: deref(g.Name),
	}
}

// GetCloudService returns the resource group backing the cloud service.
func (c *Client) GetCloudService(ctx context.Context, name string) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindCloudService, name, func() error {
		resp, err := c.groups.Get(ctx, name, nil)
		if err != nil {
			return err
		}
		out = cloudServiceFromGroup(resp.ResourceGroup)
		return nil
	})
	return out, err
}

// CreateCloudService creates the backing resource group.
func (c *Client) CreateCloudService(ctx context.Context, spec provider.CloudServiceSpec) (*provider.Resource, error) {
	location := spec.Location
	if location == "" {
		location = c.location
	}
	labels := spec.Labels
	if spec.Description != "" {
		labels = withLabel(labels, "description", spec.Description)
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindCloudService, spec.Name, func() error {
		resp, err := c.groups.CreateOrUpdate(ctx, spec.Name, armresources.ResourceGroup{
			Location: to.Ptr(location),
			Tags:     tags(labels),
		}, nil)
		if err != nil {
			return err
		}
		out = cloudServiceFromGroup(resp.ResourceGroup)
		return nil
	})
	return out, err
}

func withLabel(labels map[string]string, k, v string) map[string]string {
	out := make(map[string]string, len(labels)+1)
	for lk, lv := range labels {
		out[lk] = lv
	}
	out[k] = v
	return out
}
