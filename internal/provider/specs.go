package provider

// CloudServiceSpec describes a hosted service container.
type CloudServiceSpec struct {
	Name        string
	Location    string
	Description string
	Labels      map[string]string
}

// StorageAccountSpec describes a shared storage account.
type StorageAccountSpec struct {
	Name     string
	Location string
	SKU      string
	Labels   map[string]string
}

// StorageContainerSpec describes a container inside an existing account.
type StorageContainerSpec struct {
	Account *Resource
	Name    string
}

// SQLServerSpec describes a shared SQL server.
type SQLServerSpec struct {
	Name          string
	Location      string
	AdminLogin    string
	AdminPassword string
	Labels        map[string]string
}

// SQLDatabaseSpec describes a database on an existing server.
type SQLDatabaseSpec struct {
	Server   *Resource
	Name     string
	Location string
	SKU      string
	Labels   map[string]string
}

// NamespaceSpec describes a Service Bus namespace.
type NamespaceSpec struct {
	Name     string
	Location string
	SKU      string
	Labels   map[string]string
}

// HostingPlanSpec describes a shared web hosting plan.
type HostingPlanSpec struct {
	Name     string
	Location string
	SKU      string
	Labels   map[string]string
}

// WebSiteSpec describes a web site placed on an existing hosting plan.
type WebSiteSpec struct {
	Name        string
	Location    string
	Plan        *Resource
	AppSettings map[string]string
	Labels      map[string]string
}

// ReservedIPSpec describes a reserved public address.
type ReservedIPSpec struct {
	Name     string
	Location string
	Labels   map[string]string
}
