package provisioning

import (
	"context"

	"github.com/imamik/flexprov/internal/chooser"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/reconcile"
	"github.com/imamik/flexprov/internal/util/naming"
)

// HostingPlanGate is the gate key serializing hosting plan selection.
const HostingPlanGate = "hosting-plan"

const (
	sharedLogicalName     = "Shared"
	storageAccountNameMax = 24
)

// sharedIdentity identifies the shared parents of kind. Shared parents
// belong to the root branch.
func (c *Context) sharedIdentity(kind provider.Kind) naming.Identity {
	cfg := c.Runtime.Config
	return naming.Identity{
		Kind:              kind,
		LogicalName:       sharedLogicalName,
		SystemLogicalName: cfg.System,
		Branch:            cfg.RootBranch,
		Configuration:     cfg.Configuration,
	}
}

// sharedName names the parent created for sku. Parents of different tiers
// never share a name.
func (c *Context) sharedName(id naming.Identity, sku string) string {
	name := c.Runtime.Naming.Name(id)
	if s := naming.Compact(sku, 0); s != "" {
		name += "-" + s
	}
	return name
}

// parentScope limits candidates to the system's parents in the configured
// location.
func (c *Context) parentScope(kind provider.Kind, sku string) chooser.Scope {
	return chooser.Scope{
		Kind:         kind,
		Location:     c.Runtime.Location(),
		NameContains: c.Runtime.Naming.Policy.SystemPrefix(c.Runtime.Config.System),
		SKU:          sku,
	}
}

// chooseOrCreate runs the choose-or-create sequence for a shared parent:
// the registered chooser stands in for the lookup, and create runs only
// when it finds nothing. Selection is serialized per parent name. A create
// that conflicts with a parent made elsewhere re-runs the chooser and
// adopts what it finds.
func (c *Context) chooseOrCreate(
	kind provider.Kind,
	name string,
	list chooser.Lister,
	scope chooser.Scope,
	create func(ctx context.Context) (*provider.Resource, error),
) (*provider.Resource, error) {
	return reconcile.Locked(c.Runtime.Gate, parentGate(kind, name), func() (*provider.Resource, error) {
		res, err := c.ensure(&reconcile.Operation[*provider.Resource]{
			Kind: kind,
			Name: name,
			Get: func(ctx context.Context, _ string) (*provider.Resource, error) {
				return c.Runtime.Choosers.Choose(ctx, list, scope)
			},
			Create: func(ctx context.Context) (*provider.Resource, error) {
				created, err := create(ctx)
				if err == nil || !provider.IsConflict(err) {
					return created, err
				}
				existing, chooseErr := c.Runtime.Choosers.Choose(ctx, list, scope)
				if chooseErr != nil || existing == nil {
					return nil, err
				}
				c.Logger.Debug().Str("kind", string(kind)).Str("parent", existing.Name).Msg("adopted parent created concurrently")
				return existing, nil
			},
		})
		if err != nil {
			return nil, err
		}
		if res.Found {
			c.Logger.Debug().Str("kind", string(kind)).Str("parent", res.Handle.Name).Msg("chose existing parent")
		}
		return res.Handle, nil
	})
}

func parentGate(kind provider.Kind, name string) string {
	return "parent/" + string(kind) + "/" + name
}

// storageAccount chooses or creates the storage account for sku.
func (c *Context) storageAccount(cloud provider.Cloud, sku string) (*provider.Resource, error) {
	id := c.sharedIdentity(provider.KindStorageAccount)
	name := naming.Compact(c.sharedName(id, sku), storageAccountNameMax)
	return c.chooseOrCreate(provider.KindStorageAccount, name,
		cloud.ListStorageAccounts,
		c.parentScope(provider.KindStorageAccount, sku),
		func(ctx context.Context) (*provider.Resource, error) {
			return cloud.CreateStorageAccount(ctx, provider.StorageAccountSpec{
				Name:     name,
				Location: c.Runtime.Location(),
				SKU:      sku,
				Labels:   labels(id),
			})
		})
}

// sqlServer chooses or creates the SQL server. Creation needs the
// FlexSaUser and FlexSaPwd credentials.
func (c *Context) sqlServer(cloud provider.Cloud) (*provider.Resource, error) {
	id := c.sharedIdentity(provider.KindSQLServer)
	name := c.Runtime.Naming.Name(id)
	return c.chooseOrCreate(provider.KindSQLServer, name,
		cloud.ListSQLServers,
		c.parentScope(provider.KindSQLServer, ""),
		func(ctx context.Context) (*provider.Resource, error) {
			user, password, err := c.Runtime.Secrets.SQLAdmin()
			if err != nil {
				return nil, err
			}
			return cloud.CreateSQLServer(ctx, provider.SQLServerSpec{
				Name:          name,
				Location:      c.Runtime.Location(),
				AdminLogin:    user,
				AdminPassword: password,
				Labels:        labels(id),
			})
		})
}

// hostingPlan chooses or creates the hosting plan for sku inside the
// hosting plan gate.
func (c *Context) hostingPlan(cloud provider.Cloud, sku string) (*provider.Resource, error) {
	id := c.sharedIdentity(provider.KindHostingPlan)
	name := c.sharedName(id, sku)
	return reconcile.Locked(c.Runtime.Gate, HostingPlanGate, func() (*provider.Resource, error) {
		return c.chooseOrCreate(provider.KindHostingPlan, name,
			cloud.ListHostingPlans,
			c.parentScope(provider.KindHostingPlan, sku),
			func(ctx context.Context) (*provider.Resource, error) {
				return cloud.CreateHostingPlan(ctx, provider.HostingPlanSpec{
					Name:     name,
					Location: c.Runtime.Location(),
					SKU:      sku,
					Labels:   labels(id),
				})
			})
	})
}
