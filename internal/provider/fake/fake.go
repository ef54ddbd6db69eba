// Package fake provides an in-memory implementation of provider.Cloud for
// tests and dry runs.
package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/imamik/flexprov/internal/provider"
)

// Cloud is a thread-safe in-memory backend. Resources are keyed by kind and
// parent/name. Every call is counted and may be failed on demand.
type Cloud struct {
	mu        sync.Mutex
	resources map[provider.Kind]map[string]*provider.Resource
	calls     map[string]int
	failures  map[string]error
	nextID    int

	// Location is stamped on resources created without one.
	Location string

	// BeforeCall, if set, runs (outside the lock) before every operation.
	BeforeCall func(op, name string)

	// NamespaceDeleteLag keeps a deleted namespace visible for this many
	// subsequent GetNamespace calls.
	NamespaceDeleteLag int
	pendingDeletes     map[string]int
}

var _ provider.Cloud = (*Cloud)(nil)

// New returns an empty fake cloud.
func New() *Cloud {
	return &Cloud{
		resources:      make(map[provider.Kind]map[string]*provider.Resource),
		calls:          make(map[string]int),
		failures:       make(map[string]error),
		pendingDeletes: make(map[string]int),
		Location:       "westeurope",
	}
}

// Seed stores a resource as if it already existed.
func (c *Cloud) Seed(r *provider.Resource) *provider.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.put(r)
}

// Fail makes the operation op on name return err until cleared with a nil
// err. An empty name matches every call of op.
func (c *Cloud) Fail(op, name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := op + "/" + name
	if err == nil {
		delete(c.failures, key)
		return
	}
	c.failures[key] = err
}

// Calls returns how often op was invoked.
func (c *Cloud) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// Resources returns a snapshot of every stored resource of the kind, sorted
// by name.
func (c *Cloud) Resources(kind provider.Kind) []*provider.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*provider.Resource
	for _, r := range c.resources[kind] {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func key(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func (c *Cloud) enter(op, name string) error {
	if c.BeforeCall != nil {
		c.BeforeCall(op, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
	if err, ok := c.failures[op+"/"+name]; ok {
		return err
	}
	if err, ok := c.failures[op+"/"]; ok {
		return err
	}
	return nil
}

// put must be called with the lock held.
func (c *Cloud) put(r *provider.Resource) *provider.Resource {
	cp := *r
	if cp.ID == "" {
		c.nextID++
		cp.ID = fmt.Sprintf("%s-%d", cp.Kind, c.nextID)
	}
	if cp.Location == "" {
		cp.Location = c.Location
	}
	byName, ok := c.resources[cp.Kind]
	if !ok {
		byName = make(map[string]*provider.Resource)
		c.resources[cp.Kind] = byName
	}
	byName[key(cp.Parent, cp.Name)] = &cp
	out := cp
	return &out
}

func (c *Cloud) get(kind provider.Kind, parent, name string) (*provider.Resource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.resources[kind][key(parent, name)]
	if !ok {
		return nil, provider.NotFound(kind, name)
	}
	cp := *r
	return &cp, nil
}

func (c *Cloud) list(kind provider.Kind) []*provider.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*provider.Resource, 0, len(c.resources[kind]))
	for _, r := range c.resources[kind] {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Cloud) create(r *provider.Resource) (*provider.Resource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.resources[r.Kind][key(r.Parent, r.Name)]; exists {
		return nil, &provider.FaultDetail{Kind: r.Kind, Target: r.Name, Code: "Conflict", Message: "resource already exists"}
	}
	return c.put(r), nil
}

// bumpChildren increments the child count of a shared parent.
func (c *Cloud) bumpChildren(kind provider.Kind, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.resources[kind][name]; ok {
		r.Children++
	}
}

func (c *Cloud) GetCloudService(_ context.Context, name string) (*provider.Resource, error) {
	if err := c.enter("GetCloudService", name); err != nil {
		return nil, err
	}
	return c.get(provider.KindCloudService, "", name)
}

func (c *Cloud) CreateCloudService(_ context.Context, spec provider.CloudServiceSpec) (*provider.Resource, error) {
	if err := c.enter("CreateCloudService", spec.Name); err != nil {
		return nil, err
	}
	return c.create(&provider.Resource{Kind: provider.KindCloudService, Name: spec.Name, Location: spec.Location})
}

func (c *Cloud) ListStorageAccounts(_ context.Context) ([]*provider.Resource, error) {
	if err := c.enter("ListStorageAccounts", ""); err != nil {
		return nil, err
	}
	return c.list(provider.KindStorageAccount), nil
}

func (c *Cloud) CreateStorageAccount(_ context.Context, spec provider.StorageAccountSpec) (*provider.Resource, error) {
	if err := c.enter("CreateStorageAccount", spec.Name); err != nil {
		return nil, err
	}
	return c.create(&provider.Resource{Kind: provider.KindStorageAccount, Name: spec.Name, Location: spec.Location, SKU: spec.SKU})
}

func (c *Cloud) GetStorageContainer(_ context.Context, account *provider.Resource, name string) (*provider.Resource, error) {
	if err := c.enter("GetStorageContainer", name); err != nil {
		return nil, err
	}
	return c.get(provider.KindStorageContainer, account.Name, name)
}

func (c *Cloud) CreateStorageContainer(_ context.Context, spec provider.StorageContainerSpec) (*provider.Resource, error) {
	if err := c.enter("CreateStorageContainer", spec.Name); err != nil {
		return nil, err
	}
	r, err := c.create(&provider.Resource{Kind: provider.KindStorageContainer, Name: spec.Name, Parent: spec.Account.Name, Location: spec.Account.Location})
	if err == nil {
		c.bumpChildren(provider.KindStorageAccount, spec.Account.Name)
	}
	return r, err
}

func (c *Cloud) ListSQLServers(_ context.Context) ([]*provider.Resource, error) {
	if err := c.enter("ListSQLServers", ""); err != nil {
		return nil, err
	}
	return c.list(provider.KindSQLServer), nil
}

func (c *Cloud) CreateSQLServer(_ context.Context, spec provider.SQLServerSpec) (*provider.Resource, error) {
	if err := c.enter("CreateSQLServer", spec.Name); err != nil {
		return nil, err
	}
	return c.create(&provider.Resource{Kind: provider.KindSQLServer, Name: spec.Name, Location: spec.Location})
}

func (c *Cloud) GetSQLDatabase(_ context.Context, server *provider.Resource, name string) (*provider.Resource, error) {
	if err := c.enter("GetSQLDatabase", name); err != nil {
		return nil, err
	}
	return c.get(provider.KindSQLDatabase, server.Name, name)
}

func (c *Cloud) CreateSQLDatabase(_ context.Context, spec provider.SQLDatabaseSpec) (*provider.Resource, error) {
	if err := c.enter("CreateSQLDatabase", spec.Name); err != nil {
		return nil, err
	}
	r, err := c.create(&provider.Resource{Kind: provider.KindSQLDatabase, Name: spec.Name, Parent: spec.Server.Name, Location: spec.Location, SKU: spec.SKU})
	if err == nil {
		c.bumpChildren(provider.KindSQLServer, spec.Server.Name)
	}
	return r, err
}

func (c *Cloud) GetNamespace(_ context.Context, name string) (*provider.Resource, error) {
	if err := c.enter("GetNamespace", name); err != nil {
		return nil, err
	}
	c.mu.Lock()
	if n, ok := c.pendingDeletes[name]; ok {
		if n <= 0 {
			delete(c.pendingDeletes, name)
			delete(c.resources[provider.KindServiceBusNamespace], name)
		} else {
			c.pendingDeletes[name] = n - 1
		}
	}
	c.mu.Unlock()
	return c.get(provider.KindServiceBusNamespace, "", name)
}

func (c *Cloud) CreateNamespace(_ context.Context, spec provider.NamespaceSpec) (*provider.Resource, error) {
	if err := c.enter("CreateNamespace", spec.Name); err != nil {
		return nil, err
	}
	return c.create(&provider.Resource{Kind: provider.KindServiceBusNamespace, Name: spec.Name, Location: spec.Location, SKU: spec.SKU})
}

func (c *Cloud) DeleteNamespace(_ context.Context, name string) error {
	if err := c.enter("DeleteNamespace", name); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.resources[provider.KindServiceBusNamespace][name]; !ok {
		return provider.NotFound(provider.KindServiceBusNamespace, name)
	}
	if c.NamespaceDeleteLag > 0 {
		if _, pending := c.pendingDeletes[name]; !pending {
			c.pendingDeletes[name] = c.NamespaceDeleteLag
		}
		return nil
	}
	delete(c.resources[provider.KindServiceBusNamespace], name)
	return nil
}

func (c *Cloud) ListHostingPlans(_ context.Context) ([]*provider.Resource, error) {
	if err := c.enter("ListHostingPlans", ""); err != nil {
		return nil, err
	}
	return c.list(provider.KindHostingPlan), nil
}

func (c *Cloud) CreateHostingPlan(_ context.Context, spec provider.HostingPlanSpec) (*provider.Resource, error) {
	if err := c.enter("CreateHostingPlan", spec.Name); err != nil {
		return nil, err
	}
	return c.create(&provider.Resource{Kind: provider.KindHostingPlan, Name: spec.Name, Location: spec.Location, SKU: spec.SKU})
}

func (c *Cloud) GetWebSite(_ context.Context, name string) (*provider.Resource, error) {
	if err := c.enter("GetWebSite", name); err != nil {
		return nil, err
	}
	return c.get(provider.KindWebSite, "", name)
}

func (c *Cloud) CreateWebSite(_ context.Context, spec provider.WebSiteSpec) (*provider.Resource, error) {
	if err := c.enter("CreateWebSite", spec.Name); err != nil {
		return nil, err
	}
	r, err := c.create(&provider.Resource{Kind: provider.KindWebSite, Name: spec.Name, Location: spec.Location, Address: spec.Name + ".example.net"})
	if err == nil && spec.Plan != nil {
		c.mu.Lock()
		c.resources[provider.KindWebSite][spec.Name].Parent = spec.Plan.Name
		c.mu.Unlock()
		r.Parent = spec.Plan.Name
		c.bumpChildren(provider.KindHostingPlan, spec.Plan.Name)
	}
	return r, err
}

func (c *Cloud) GetReservedIP(_ context.Context, name string) (*provider.Resource, error) {
	if err := c.enter("GetReservedIP", name); err != nil {
		return nil, err
	}
	return c.get(provider.KindReservedIP, "", name)
}

func (c *Cloud) CreateReservedIP(_ context.Context, spec provider.ReservedIPSpec) (*provider.Resource, error) {
	if err := c.enter("CreateReservedIP", spec.Name); err != nil {
		return nil, err
	}
	c.mu.Lock()
	addr := fmt.Sprintf("203.0.113.%d", c.nextID%250+1)
	c.mu.Unlock()
	return c.create(&provider.Resource{Kind: provider.KindReservedIP, Name: spec.Name, Location: spec.Location, Address: addr})
}

// AddVM seeds an existing virtual machine.
func (c *Cloud) AddVM(name, size, state string) {
	c.Seed(&provider.Resource{Kind: provider.KindVirtualMachine, Name: name, SKU: size, State: state})
}

func (c *Cloud) GetVM(_ context.Context, name string) (*provider.Resource, error) {
	if err := c.enter("GetVM", name); err != nil {
		return nil, err
	}
	return c.get(provider.KindVirtualMachine, "", name)
}

func (c *Cloud) mutateVM(name string, fn func(*provider.Resource)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.resources[provider.KindVirtualMachine][name]
	if !ok {
		return provider.NotFound(provider.KindVirtualMachine, name)
	}
	fn(r)
	return nil
}

// UpdateVMSize mimics backends that leave a resized VM stopped.
func (c *Cloud) UpdateVMSize(_ context.Context, name, size string) error {
	if err := c.enter("UpdateVMSize", name); err != nil {
		return err
	}
	return c.mutateVM(name, func(r *provider.Resource) {
		r.SKU = size
		r.State = provider.StateStopped
	})
}

func (c *Cloud) StartVM(_ context.Context, name string) error {
	if err := c.enter("StartVM", name); err != nil {
		return err
	}
	return c.mutateVM(name, func(r *provider.Resource) { r.State = provider.StateRunning })
}

func (c *Cloud) DeallocateVM(_ context.Context, name string) error {
	if err := c.enter("DeallocateVM", name); err != nil {
		return err
	}
	return c.mutateVM(name, func(r *provider.Resource) { r.State = provider.StateDeallocated })
}
