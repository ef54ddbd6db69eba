package provider

import "context"

// Get operations return an error satisfying IsNotFound when the resource is
// absent. List operations return an empty slice (or a not-found error,
// which callers treat identically).

// CloudServices manages hosted service containers.
type CloudServices interface {
	GetCloudService(ctx context.Context, name string) (*Resource, error)
	CreateCloudService(ctx context.Context, spec CloudServiceSpec) (*Resource, error)
}

// StorageAccounts manages shared storage accounts.
type StorageAccounts interface {
	ListStorageAccounts(ctx context.Context) ([]*Resource, error)
	CreateStorageAccount(ctx context.Context, spec StorageAccountSpec) (*Resource, error)
}

// StorageContainers manages containers inside a storage account.
type StorageContainers interface {
	GetStorageContainer(ctx context.Context, account *Resource, name string) (*Resource, error)
	CreateStorageContainer(ctx context.Context, spec StorageContainerSpec) (*Resource, error)
}

// SQLServers manages shared SQL servers.
type SQLServers interface {
	ListSQLServers(ctx context.Context) ([]*Resource, error)
	CreateSQLServer(ctx context.Context, spec SQLServerSpec) (*Resource, error)
}

// SQLDatabases manages databases on a SQL server.
type SQLDatabases interface {
	GetSQLDatabase(ctx context.Context, server *Resource, name string) (*Resource, error)
	CreateSQLDatabase(ctx context.Context, spec SQLDatabaseSpec) (*Resource, error)
}

// ServiceBus manages Service Bus namespaces.
type ServiceBus interface {
	GetNamespace(ctx context.Context, name string) (*Resource, error)
	CreateNamespace(ctx context.Context, spec NamespaceSpec) (*Resource, error)
	DeleteNamespace(ctx context.Context, name string) error
}

// HostingPlans manages shared web hosting plans.
type HostingPlans interface {
	ListHostingPlans(ctx context.Context) ([]*Resource, error)
	CreateHostingPlan(ctx context.Context, spec HostingPlanSpec) (*Resource, error)
}

// WebSites manages web sites.
type WebSites interface {
	GetWebSite(ctx context.Context, name string) (*Resource, error)
	CreateWebSite(ctx context.Context, spec WebSiteSpec) (*Resource, error)
}

// ReservedIPs manages reserved public addresses.
type ReservedIPs interface {
	GetReservedIP(ctx context.Context, name string) (*Resource, error)
	CreateReservedIP(ctx context.Context, spec ReservedIPSpec) (*Resource, error)
}

// VirtualMachines drives existing VMs towards a desired state. VMs are
// never created by this tool.
type VirtualMachines interface {
	GetVM(ctx context.Context, name string) (*Resource, error)
	UpdateVMSize(ctx context.Context, name, size string) error
	StartVM(ctx context.Context, name string) error
	// DeallocateVM stops the VM and releases its compute allocation.
	DeallocateVM(ctx context.Context, name string) error
}

// Compute is the surface a compute backend must offer.
type Compute interface {
	VirtualMachines
	ReservedIPs
}

// Cloud combines every managed resource surface.
type Cloud interface {
	CloudServices
	StorageAccounts
	StorageContainers
	SQLServers
	SQLDatabases
	ServiceBus
	HostingPlans
	WebSites
	Compute
}
