package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"

	"github.com/imamik/flexprov/internal/provider"
)

func storageAccountResource(a *armstorage.Account) *provider.Resource {
	r := &provider.Resource{
		Kind:     provider.KindStorageAccount,
		Name:     deref(a.Name),
		ID:       deref(a.ID),
		Location: deref(a.Location),
	}
	if a.SKU != nil {
		r.SKU = string(deref(a.SKU.Name))
	}
	r.ResourceGroup = resourceGroupOf(r.ID)
	return r
}

// resourceGroupOf parses the resource group from an ARM id.
func resourceGroupOf(id string) string {
	if id == "" {
		return ""
	}
	rid, err := arm.ParseResourceID(id)
	if err != nil {
		return ""
	}
	return rid.ResourceGroupName
}

// ListStorageAccounts lists every storage account of the subscription.
func (c *Client) ListStorageAccounts(ctx context.Context) ([]*provider.Resource, error) {
	var out []*provider.Resource
	pager := c.accounts.NewListPager(nil)
	for pager.More() {
		var page armstorage.AccountsClientListResponse
		err := c.call(ctx, provider.KindStorageAccount, "*", func() error {
			var err error
			page, err = pager.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, a := range page.Value {
			if a != nil {
				out = append(out, storageAccountResource(a))
			}
		}
	}
	return out, nil
}

// CreateStorageAccount creates a StorageV2 account in the client's resource
// group.
func (c *Client) CreateStorageAccount(ctx context.Context, spec provider.StorageAccountSpec) (*provider.Resource, error) {
	sku := armstorage.SKUNameStandardLRS
	if spec.SKU != "" {
		sku = armstorage.SKUName(spec.SKU)
	}
	location := spec.Location
	if location == "" {
		location = c.location
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindStorageAccount, spec.Name, func() error {
		poller, err := c.accounts.BeginCreate(ctx, c.resourceGroup, spec.Name, armstorage.AccountCreateParameters{
			Kind:     to.Ptr(armstorage.KindStorageV2),
			Location: to.Ptr(location),
			SKU:      &armstorage.SKU{Name: to.Ptr(sku)},
			Tags:     tags(spec.Labels),
		}, nil)
		if err != nil {
			return err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return err
		}
		out = storageAccountResource(&resp.Account)
		return nil
	})
	return out, err
}

func accountGroup(c *Client, account *provider.Resource) string {
	if account.ResourceGroup != "" {
		return account.ResourceGroup
	}
	return c.resourceGroup
}

// GetStorageContainer returns the named blob container of account.
func (c *Client) GetStorageContainer(ctx context.Context, account *provider.Resource, name string) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindStorageContainer, name, func() error {
		resp, err := c.containers.Get(ctx, accountGroup(c, account), account.Name, name, nil)
		if err != nil {
			return err
		}
		out = &provider.Resource{
			Kind:          provider.KindStorageContainer,
			Name:          deref(resp.Name),
			ID:            deref(resp.ID),
			Parent:        account.Name,
			ResourceGroup: accountGroup(c, account),
		}
		return nil
	})
	return out, err
}

// CreateStorageContainer creates a private blob container.
func (c *Client) CreateStorageContainer(ctx context.Context, spec provider.StorageContainerSpec) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindStorageContainer, spec.Name, func() error {
		resp, err := c.containers.Create(ctx, accountGroup(c, spec.Account), spec.Account.Name, spec.Name, armstorage.BlobContainer{
			ContainerProperties: &armstorage.ContainerProperties{
				PublicAccess: to.Ptr(armstorage.PublicAccessNone),
			},
		}, nil)
		if err != nil {
			return err
		}
		out = &provider.Resource{
			Kind:          provider.KindStorageContainer,
			Name:          deref(resp.Name),
			ID:            deref(resp.ID),
			Parent:        spec.Account.Name,
			ResourceGroup: accountGroup(c, spec.Account),
		}
		return nil
	})
	return out, err
}
