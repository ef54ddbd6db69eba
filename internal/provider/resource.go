package provider

import (
	"fmt"
	"strings"
)

// Kind identifies a provisionable resource type.
type Kind string

const (
	KindCloudService        Kind = "CloudService"
	KindStorageAccount      Kind = "StorageAccount"
	KindStorageContainer    Kind = "StorageContainer"
	KindSQLServer           Kind = "SqlServer"
	KindSQLDatabase         Kind = "SqlDatabase"
	KindServiceBusNamespace Kind = "ServiceBusNamespace"
	KindHostingPlan         Kind = "HostingPlan"
	KindWebSite             Kind = "WebSite"
	KindReservedIP          Kind = "ReservedIp"
	KindVirtualMachine      Kind = "VirtualMachine"
	KindArchiveBucket       Kind = "ArchiveBucket"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{
	KindCloudService,
	KindStorageAccount,
	KindStorageContainer,
	KindSQLServer,
	KindSQLDatabase,
	KindServiceBusNamespace,
	KindHostingPlan,
	KindWebSite,
	KindReservedIP,
	KindVirtualMachine,
	KindArchiveBucket,
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// VM power states reported in Resource.State.
const (
	StateRunning     = "running"
	StateStarting    = "starting"
	StateStopping    = "stopping"
	StateStopped     = "stopped"
	StateDeallocated = "deallocated"
	StateUnknown     = "unknown"
)

// Resource is the opaque handle returned by a backend. Only Name and Kind
// are interpreted by the generic reconciliation logic; the remaining fields
// feed choosers and follow-up operations.
type Resource struct {
	Kind     Kind
	Name     string
	ID       string
	Location string
	SKU      string
	// Parent is the owning resource name (storage account of a container,
	// SQL server of a database, hosting plan of a web site).
	Parent string
	// ResourceGroup is the backend grouping the resource lives in, if any.
	ResourceGroup string
	State         string
	Address       string
	// Children counts dependents hosted by a shared resource.
	Children int
}

func (r *Resource) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.Parent != "" {
		return fmt.Sprintf("%s %s/%s", r.Kind, r.Parent, r.Name)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Name)
}

// Stopped reports whether a VM handle is in a stopped or deallocated state.
func (r *Resource) Stopped() bool {
	return r != nil && (r.State == StateStopped || r.State == StateDeallocated)
}
