package config

// Compute backends.
const (
	ComputeAzure  = "azure"
	ComputeHCloud = "hcloud"
)

// Config is the YAML configuration of one deployable system.
type Config struct {
	// System is the logical name of the deployed system.
	System string `yaml:"system"`
	// Branch is the source branch being deployed; empty means RootBranch.
	Branch     string `yaml:"branch"`
	RootBranch string `yaml:"root_branch"`
	// Configuration is the deployment configuration (TEST, PROD, ...).
	Configuration string `yaml:"configuration"`

	Naming   NamingConfig      `yaml:"naming"`
	Provider ProviderConfig    `yaml:"provider"`
	Choosers map[string]string `yaml:"choosers"`
	Archive  ArchiveConfig     `yaml:"archive"`

	Resources Inventory `yaml:"resources"`
}

// NamingConfig tunes slot naming.
type NamingConfig struct {
	SystemMax        int              `yaml:"system_max"`
	ComponentMax     int              `yaml:"component_max"`
	ConfigurationMax int              `yaml:"configuration_max"`
	Overrides        []NamingOverride `yaml:"overrides"`
}

// NamingOverride replaces the slot name of one resource kind with a template.
type NamingOverride struct {
	Kind     string `yaml:"kind"`
	Template string `yaml:"template"`
}

// ProviderConfig selects and configures the cloud backends.
type ProviderConfig struct {
	// Compute selects the VM and reserved IP backend.
	Compute string       `yaml:"compute"`
	Azure   AzureConfig  `yaml:"azure"`
	HCloud  HCloudConfig `yaml:"hcloud"`
}

// AzureConfig holds Azure Resource Manager settings.
type AzureConfig struct {
	SubscriptionID string `yaml:"subscription_id"`
	TenantID       string `yaml:"tenant_id"`
	ClientID       string `yaml:"client_id"`
	ResourceGroup  string `yaml:"resource_group"`
	Location       string `yaml:"location"`
}

// HCloudConfig holds Hetzner Cloud settings.
type HCloudConfig struct {
	// TokenEnv names the environment variable holding the API token.
	TokenEnv string `yaml:"token_env"`
	// Location is the home location of floating IPs.
	Location string `yaml:"location"`
}

// ArchiveConfig configures the S3 event archive.
type ArchiveConfig struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`
}

// Inventory lists the resources a system needs.
type Inventory struct {
	CloudServices     []CloudService     `yaml:"cloud_services"`
	StorageContainers []StorageContainer `yaml:"storage_containers"`
	SQLDatabases      []SQLDatabase      `yaml:"sql_databases"`
	Namespaces        []Namespace        `yaml:"service_bus_namespaces"`
	WebSites          []WebSite          `yaml:"web_sites"`
	ReservedIPs       []ReservedIP       `yaml:"reserved_ips"`
	VirtualMachines   []string           `yaml:"virtual_machines"`
}

// CloudService is a hosted service container.
type CloudService struct {
	Name          string `yaml:"name"`
	VIPSwap       bool   `yaml:"vip_swap"`
	DeleteStaging bool   `yaml:"delete_staging"`
}

// StorageContainer is a blob container placed on a shared storage account.
type StorageContainer struct {
	Name       string `yaml:"name"`
	AccountSKU string `yaml:"account_sku"`
}

// SQLDatabase is a database placed on a shared SQL server.
type SQLDatabase struct {
	Name string `yaml:"name"`
	SKU  string `yaml:"sku"`
}

// Namespace is a Service Bus namespace.
type Namespace struct {
	Name string `yaml:"name"`
	SKU  string `yaml:"sku"`
}

// WebSite is a web site placed on a shared hosting plan.
type WebSite struct {
	Name        string            `yaml:"name"`
	PlanSKU     string            `yaml:"plan_sku"`
	AppSettings map[string]string `yaml:"app_settings"`
}

// ReservedIP is a reserved public address.
type ReservedIP struct {
	Name string `yaml:"name"`
}

// EffectiveBranch returns Branch, or RootBranch when Branch is empty.
func (c *Config) EffectiveBranch() string {
	if c.Branch == "" {
		return c.RootBranch
	}
	return c.Branch
}
