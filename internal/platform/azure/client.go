package azure

import (
	"crypto/x509"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/servicebus/armservicebus"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/rs/zerolog"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/log"
	"github.com/imamik/flexprov/internal/provider"
)

// Client implements provider.Cloud against one subscription and resource
// group.
type Client struct {
	subscriptionID string
	resourceGroup  string
	location       string
	timeouts       *config.Timeouts
	logger         zerolog.Logger

	groups     *armresources.ResourceGroupsClient
	accounts   *armstorage.AccountsClient
	containers *armstorage.BlobContainersClient
	servers    *armsql.ServersClient
	databases  *armsql.DatabasesClient
	namespaces *armservicebus.NamespacesClient
	plans      *armappservice.PlansClient
	sites      *armappservice.WebAppsClient
	publicIPs  *armnetwork.PublicIPAddressesClient
	vms        *armcompute.VirtualMachinesClient
}

var _ provider.Cloud = (*Client)(nil)

// Options configures a Client.
type Options struct {
	SubscriptionID string
	ResourceGroup  string
	Location       string
	Credential     azcore.TokenCredential
	ClientOptions  *arm.ClientOptions
	Timeouts       *config.Timeouts
}

// NewClient creates the ARM clients for opts.
func NewClient(opts Options) (*Client, error) {
	if opts.SubscriptionID == "" {
		return nil, config.Invalid("subscription-id", "is required for the azure backend")
	}
	if opts.ResourceGroup == "" {
		return nil, config.Invalid("provider.azure.resource_group", "is required for the azure backend")
	}
	if opts.Credential == nil {
		return nil, config.Invalid("credential", "is required for the azure backend")
	}
	if opts.Timeouts == nil {
		opts.Timeouts = config.DefaultTimeouts()
	}

	c := &Client{
		subscriptionID: opts.SubscriptionID,
		resourceGroup:  opts.ResourceGroup,
		location:       opts.Location,
		timeouts:       opts.Timeouts,
		logger:         log.WithComponent("azure"),
	}

	sub, cred, co := opts.SubscriptionID, opts.Credential, opts.ClientOptions
	var err error
	if c.groups, err = armresources.NewResourceGroupsClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create resource groups client: %w", err)
	}
	if c.accounts, err = armstorage.NewAccountsClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create storage accounts client: %w", err)
	}
	if c.containers, err = armstorage.NewBlobContainersClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create blob containers client: %w", err)
	}
	if c.servers, err = armsql.NewServersClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create sql servers client: %w", err)
	}
	if c.databases, err = armsql.NewDatabasesClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create sql databases client: %w", err)
	}
	if c.namespaces, err = armservicebus.NewNamespacesClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create service bus client: %w", err)
	}
	if c.plans, err = armappservice.NewPlansClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create hosting plans client: %w", err)
	}
	if c.sites, err = armappservice.NewWebAppsClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create web apps client: %w", err)
	}
	if c.publicIPs, err = armnetwork.NewPublicIPAddressesClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create public IP client: %w", err)
	}
	if c.vms, err = armcompute.NewVirtualMachinesClient(sub, cred, co); err != nil {
		return nil, fmt.Errorf("failed to create virtual machines client: %w", err)
	}
	return c, nil
}

// NewCredential returns a certificate credential when the subscription
// carries a management certificate and tenant and client ids are known, and
// the default Azure credential chain otherwise.
func NewCredential(sub *config.Subscription, tenantID, clientID string) (azcore.TokenCredential, error) {
	if sub != nil && sub.Certificate != nil && tenantID != "" && clientID != "" {
		cred, err := azidentity.NewClientCertificateCredential(tenantID, clientID, []*x509.Certificate{sub.Certificate}, sub.Key, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create certificate credential: %w", err)
		}
		return cred, nil
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create default azure credential: %w", err)
	}
	return cred, nil
}
