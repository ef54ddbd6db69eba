package provisioning

import (
	"context"
	"fmt"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/reconcile"
	"github.com/imamik/flexprov/internal/util/naming"
)

// Result is the outcome of one Ensure call.
type Result = reconcile.Result[*provider.Resource]

// ensure executes op with the runtime's metrics and clock and records the
// outcome in the state.
func (c *Context) ensure(op *reconcile.Operation[*provider.Resource]) (Result, error) {
	res, err := op.Execute(c, c.Emitter,
		reconcile.WithMetrics(c.Runtime.Metrics),
		reconcile.WithClock(c.Runtime.Clock))
	if err != nil {
		return res, err
	}
	c.State.Record(res)
	return res, nil
}

// EnsureCloudService makes sure the hosted service container of a
// component exists.
func EnsureCloudService(ctx *Context, id naming.Identity, spec config.CloudService) (Result, error) {
	cloud, err := ctx.cloud()
	if err != nil {
		return Result{}, err
	}
	name := ctx.Runtime.Naming.Name(id)
	return ctx.ensure(&reconcile.Operation[*provider.Resource]{
		Kind: provider.KindCloudService,
		Name: name,
		Get:  cloud.GetCloudService,
		Create: func(c context.Context) (*provider.Resource, error) {
			return cloud.CreateCloudService(c, provider.CloudServiceSpec{
				Name:        name,
				Location:    ctx.Runtime.Location(),
				Description: fmt.Sprintf("%s %s (%s)", id.SystemLogicalName, spec.Name, id.Configuration),
				Labels:      labels(id),
			})
		},
	})
}

// EnsureStorageContainer places the container on a chosen or newly created
// storage account.
func EnsureStorageContainer(ctx *Context, id naming.Identity, spec config.StorageContainer) (Result, error) {
	cloud, err := ctx.cloud()
	if err != nil {
		return Result{}, err
	}
	account, err := ctx.storageAccount(cloud, spec.AccountSKU)
	if err != nil {
		return Result{}, err
	}

	name := ctx.Runtime.Naming.Name(id)
	return ctx.ensure(&reconcile.Operation[*provider.Resource]{
		Kind: provider.KindStorageContainer,
		Name: name,
		Get: func(c context.Context, name string) (*provider.Resource, error) {
			return cloud.GetStorageContainer(c, account, name)
		},
		Create: func(c context.Context) (*provider.Resource, error) {
			return cloud.CreateStorageContainer(c, provider.StorageContainerSpec{Account: account, Name: name})
		},
	})
}

// EnsureSQLDatabase places the database on a chosen or newly created SQL
// server and publishes the application connection string as key material.
func EnsureSQLDatabase(ctx *Context, id naming.Identity, spec config.SQLDatabase) (Result, error) {
	cloud, err := ctx.cloud()
	if err != nil {
		return Result{}, err
	}
	server, err := ctx.sqlServer(cloud)
	if err != nil {
		return Result{}, err
	}

	name := ctx.Runtime.Naming.Name(id)
	res, err := ctx.ensure(&reconcile.Operation[*provider.Resource]{
		Kind: provider.KindSQLDatabase,
		Name: name,
		Get: func(c context.Context, name string) (*provider.Resource, error) {
			return cloud.GetSQLDatabase(c, server, name)
		},
		Create: func(c context.Context) (*provider.Resource, error) {
			return cloud.CreateSQLDatabase(c, provider.SQLDatabaseSpec{
				Server:   server,
				Name:     name,
				Location: server.Location,
				SKU:      spec.SKU,
				Labels:   labels(id),
			})
		},
	})
	if err != nil {
		return res, err
	}

	secrets := ctx.Runtime.Secrets
	if !secrets.HasAppCredentials() {
		ctx.Emitter.Warn(fmt.Sprintf("FlexAppUser or FlexAppPwd is not set; no connection string for %s", name))
		return res, nil
	}
	ctx.Emitter.Key(fmt.Sprintf("Connection string for %s", name),
		ConnectionString(server, name, secrets.AppUser, secrets.AppPwd))
	return res, nil
}

// ConnectionString builds the ADO.NET connection string of database on
// server.
func ConnectionString(server *provider.Resource, database, user, password string) string {
	host := server.Address
	if host == "" {
		host = server.Name + ".database.windows.net"
	}
	return fmt.Sprintf("Server=tcp:%s,1433;Initial Catalog=%s;User ID=%s;Password=%s;Encrypt=True;Connection Timeout=30;",
		host, database, user, password)
}

// EnsureServiceBusNamespace makes sure the namespace exists.
func EnsureServiceBusNamespace(ctx *Context, id naming.Identity, spec config.Namespace) (Result, error) {
	cloud, err := ctx.cloud()
	if err != nil {
		return Result{}, err
	}
	name := ctx.Runtime.Naming.Name(id)
	return ctx.ensure(&reconcile.Operation[*provider.Resource]{
		Kind: provider.KindServiceBusNamespace,
		Name: name,
		Get:  cloud.GetNamespace,
		Create: func(c context.Context) (*provider.Resource, error) {
			return cloud.CreateNamespace(c, provider.NamespaceSpec{
				Name:     name,
				Location: ctx.Runtime.Location(),
				SKU:      spec.SKU,
				Labels:   labels(id),
			})
		},
	})
}

// EnsureWebSite places the site on a chosen or newly created hosting plan.
func EnsureWebSite(ctx *Context, id naming.Identity, spec config.WebSite) (Result, error) {
	cloud, err := ctx.cloud()
	if err != nil {
		return Result{}, err
	}
	plan, err := ctx.hostingPlan(cloud, spec.PlanSKU)
	if err != nil {
		return Result{}, err
	}

	name := ctx.Runtime.Naming.Name(id)
	return ctx.ensure(&reconcile.Operation[*provider.Resource]{
		Kind: provider.KindWebSite,
		Name: name,
		Get:  cloud.GetWebSite,
		Create: func(c context.Context) (*provider.Resource, error) {
			return cloud.CreateWebSite(c, provider.WebSiteSpec{
				Name:        name,
				Location:    plan.Location,
				Plan:        plan,
				AppSettings: spec.AppSettings,
				Labels:      labels(id),
			})
		},
	})
}

// EnsureReservedIP makes sure the reserved address exists on the compute
// backend.
func EnsureReservedIP(ctx *Context, id naming.Identity, spec config.ReservedIP) (Result, error) {
	compute, err := ctx.compute()
	if err != nil {
		return Result{}, err
	}
	name := ctx.Runtime.Naming.Name(id)
	res, err := ctx.ensure(&reconcile.Operation[*provider.Resource]{
		Kind: provider.KindReservedIP,
		Name: name,
		Get:  compute.GetReservedIP,
		Create: func(c context.Context) (*provider.Resource, error) {
			return compute.CreateReservedIP(c, provider.ReservedIPSpec{
				Name:   name,
				Labels: labels(id),
			})
		},
	})
	if err == nil && res.Handle.Address != "" {
		ctx.Emitter.Info(events.Medium, fmt.Sprintf("Reserved IP %s is %s", name, res.Handle.Address))
	}
	return res, err
}
