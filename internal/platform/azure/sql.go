package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"

	"github.com/imamik/flexprov/internal/provider"
)

func sqlServerResource(s *armsql.Server) *provider.Resource {
	r := &provider.Resource{
		Kind:     provider.KindSQLServer,
		Name:     deref(s.Name),
		ID:       deref(s.ID),
		Location: deref(s.Location),
	}
	if s.Properties != nil {
		r.SKU = deref(s.Properties.Version)
		r.Address = deref(s.Properties.FullyQualifiedDomainName)
	}
	r.ResourceGroup = resourceGroupOf(r.ID)
	return r
}

// ListSQLServers lists every SQL server of the subscription.
func (c *Client) ListSQLServers(ctx context.Context) ([]*provider.Resource, error) {
	var out []*provider.Resource
	pager := c.servers.NewListPager(nil)
	for pager.More() {
		var page armsql.ServersClientListResponse
		err := c.call(ctx, provider.KindSQLServer, "*", func() error {
			var err error
			page, err = pager.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, s := range page.Value {
			if s != nil {
				out = append(out, sqlServerResource(s))
			}
		}
	}
	return out, nil
}

// CreateSQLServer creates a logical SQL server in the client's resource
// group.
func (c *Client) CreateSQLServer(ctx context.Context, spec provider.SQLServerSpec) (*provider.Resource, error) {
	location := spec.Location
	if location == "" {
		location = c.location
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindSQLServer, spec.Name, func() error {
		poller, err := c.servers.BeginCreateOrUpdate(ctx, c.resourceGroup, spec.Name, armsql.Server{
			Location: to.Ptr(location),
			Tags:     tags(spec.Labels),
			Properties: &armsql.ServerProperties{
				AdministratorLogin:         to.Ptr(spec.AdminLogin),
				AdministratorLoginPassword: to.Ptr(spec.AdminPassword),
				Version:                    to.Ptr("12.0"),
			},
		}, nil)
		if err != nil {
			return err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return err
		}
		out = sqlServerResource(&resp.Server)
		return nil
	})
	return out, err
}

func serverGroup(c *Client, server *provider.Resource) string {
	if server.ResourceGroup != "" {
		return server.ResourceGroup
	}
	return c.resourceGroup
}

func sqlDatabaseResource(server *provider.Resource, d *armsql.Database) *provider.Resource {
	r := &provider.Resource{
		Kind:          provider.KindSQLDatabase,
		Name:          deref(d.Name),
		ID:            deref(d.ID),
		Location:      deref(d.Location),
		Parent:        server.Name,
		ResourceGroup: server.ResourceGroup,
		Address:       server.Address,
	}
	if d.SKU != nil {
		r.SKU = deref(d.SKU.Name)
	}
	return r
}

// GetSQLDatabase returns the named database on server.
func (c *Client) GetSQLDatabase(ctx context.Context, server *provider.Resource, name string) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindSQLDatabase, name, func() error {
		resp, err := c.databases.Get(ctx, serverGroup(c, server), server.Name, name, nil)
		if err != nil {
			return err
		}
		out = sqlDatabaseResource(server, &resp.Database)
		return nil
	})
	return out, err
}

// CreateSQLDatabase creates a database on the spec's server.
func (c *Client) CreateSQLDatabase(ctx context.Context, spec provider.SQLDatabaseSpec) (*provider.Resource, error) {
	location := spec.Location
	if location == "" {
		location = spec.Server.Location
	}
	db := armsql.Database{
		Location: to.Ptr(location),
		Tags:     tags(spec.Labels),
	}
	if spec.SKU != "" {
		db.SKU = &armsql.SKU{Name: to.Ptr(spec.SKU)}
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindSQLDatabase, spec.Name, func() error {
		poller, err := c.databases.BeginCreateOrUpdate(ctx, serverGroup(c, spec.Server), spec.Server.Name, spec.Name, db, nil)
		if err != nil {
			return err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return err
		}
		out = sqlDatabaseResource(spec.Server, &resp.Database)
		return nil
	})
	return out, err
}
