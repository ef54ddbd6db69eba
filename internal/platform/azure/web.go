package azure

import (
	"context"
	"net/http"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v2"

	"github.com/imamik/flexprov/internal/provider"
)

func planResource(p *armappservice.Plan) *provider.Resource {
	r := &provider.Resource{
		Kind:     provider.KindHostingPlan,
		Name:     deref(p.Name),
		ID:       deref(p.ID),
		Location: deref(p.Location),
	}
	if p.SKU != nil {
		r.SKU = deref(p.SKU.Name)
	}
	if p.Properties != nil {
		r.Children = int(deref(p.Properties.NumberOfSites))
	}
	r.ResourceGroup = resourceGroupOf(r.ID)
	return r
}

// ListHostingPlans lists every App Service plan of the subscription.
func (c *Client) ListHostingPlans(ctx context.Context) ([]*provider.Resource, error) {
	var out []*provider.Resource
	pager := c.plans.NewListPager(nil)
	for pager.More() {
		var page armappservice.PlansClientListResponse
		err := c.call(ctx, provider.KindHostingPlan, "*", func() error {
			var err error
			page, err = pager.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, p := range page.Value {
			if p != nil {
				out = append(out, planResource(p))
			}
		}
	}
	return out, nil
}

// CreateHostingPlan creates an App Service plan; the SKU defaults to S1.
func (c *Client) CreateHostingPlan(ctx context.Context, spec provider.HostingPlanSpec) (*provider.Resource, error) {
	sku := spec.SKU
	if sku == "" {
		sku = "S1"
	}
	location := spec.Location
	if location == "" {
		location = c.location
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindHostingPlan, spec.Name, func() error {
		poller, err := c.plans.BeginCreateOrUpdate(ctx, c.resourceGroup, spec.Name, armappservice.Plan{
			Location: to.Ptr(location),
			SKU:      &armappservice.SKUDescription{Name: to.Ptr(sku)},
			Tags:     tags(spec.Labels),
		}, nil)
		if err != nil {
			return err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return err
		}
		out = planResource(&resp.Plan)
		return nil
	})
	return out, err
}

func siteResource(s *armappservice.Site, plan string) *provider.Resource {
	r := &provider.Resource{
		Kind:     provider.KindWebSite,
		Name:     deref(s.Name),
		ID:       deref(s.ID),
		Location: deref(s.Location),
		Parent:   plan,
	}
	if s.Properties != nil {
		r.State = deref(s.Properties.State)
		r.Address = deref(s.Properties.DefaultHostName)
		if r.Parent == "" {
			if rid := deref(s.Properties.ServerFarmID); rid != "" {
				r.Parent = nameOf(rid)
			}
		}
	}
	r.ResourceGroup = resourceGroupOf(r.ID)
	return r
}

// GetWebSite returns the named web app. The web apps API may answer an
// unknown site with an empty body instead of a 404; such answers are treated
// as not found.
func (c *Client) GetWebSite(ctx context.Context, name string) (*provider.Resource, error) {
	var out *provider.Resource
	err := c.call(ctx, provider.KindWebSite, name, func() error {
		resp, err := c.sites.Get(ctx, c.resourceGroup, name, nil)
		if err != nil {
			return err
		}
		if resp.ID == nil {
			return &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "ResourceNotFound"}
		}
		out = siteResource(&resp.Site, "")
		return nil
	})
	return out, err
}

// CreateWebSite creates a web app on the spec's hosting plan.
func (c *Client) CreateWebSite(ctx context.Context, spec provider.WebSiteSpec) (*provider.Resource, error) {
	location := spec.Location
	if location == "" {
		location = spec.Plan.Location
	}

	var out *provider.Resource
	err := c.call(ctx, provider.KindWebSite, spec.Name, func() error {
		poller, err := c.sites.BeginCreateOrUpdate(ctx, c.resourceGroup, spec.Name, armappservice.Site{
			Location: to.Ptr(location),
			Tags:     tags(spec.Labels),
			Properties: &armappservice.SiteProperties{
				ServerFarmID: to.Ptr(spec.Plan.ID),
				SiteConfig: &armappservice.SiteConfig{
					AppSettings: appSettings(spec.AppSettings),
				},
			},
		}, nil)
		if err != nil {
			return err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return err
		}
		out = siteResource(&resp.Site, spec.Plan.Name)
		return nil
	})
	return out, err
}

func appSettings(settings map[string]string) []*armappservice.NameValuePair {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*armappservice.NameValuePair, 0, len(keys))
	for _, k := range keys {
		out = append(out, &armappservice.NameValuePair{Name: to.Ptr(k), Value: to.Ptr(settings[k])})
	}
	return out
}

// nameOf returns the last segment of an ARM id.
func nameOf(id string) string {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '/' {
			return id[i+1:]
		}
	}
	return id
}
