package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/provisioning"
)

// PushCloudServices ensures the configured cloud services. A non-empty
// names list restricts the run to those services.
func PushCloudServices(ctx context.Context, rt *config.Runtime, names []string, opts ...Option) Report {
	return NewRunner(rt, opts...).PushCloudServices(ctx, names)
}

// PushConfiguration ensures every configured non-compute resource and
// reserved IP.
func PushConfiguration(ctx context.Context, rt *config.Runtime, opts ...Option) Report {
	return NewRunner(rt, opts...).PushConfiguration(ctx)
}

// ResizeVMs resizes the named VMs, or every configured VM when names is
// empty.
func ResizeVMs(ctx context.Context, rt *config.Runtime, names []string, size string, opts ...Option) Report {
	return NewRunner(rt, opts...).ResizeVMs(ctx, names, size)
}

// StopVMs deallocates the named VMs, or every configured VM when names is
// empty.
func StopVMs(ctx context.Context, rt *config.Runtime, names []string, opts ...Option) Report {
	return NewRunner(rt, opts...).StopVMs(ctx, names)
}

// DeleteNamespace deletes a Service Bus namespace.
func DeleteNamespace(ctx context.Context, rt *config.Runtime, name string, force bool, opts ...Option) Report {
	return NewRunner(rt, opts...).DeleteNamespace(ctx, name, force)
}

// PushCloudServices implements the package-level function.
func (r *Runner) PushCloudServices(ctx context.Context, names []string) Report {
	services, err := selectServices(r.rt.Config.Resources.CloudServices, names)
	if err != nil {
		return Report{Err: err}
	}

	units := make([]provisioning.Unit, 0, len(services))
	for _, svc := range services {
		units = append(units, provisioning.Unit{
			Name: svc.Name,
			Run: func(c *provisioning.Context) error {
				return pushCloudService(c, svc)
			},
		})
	}
	return r.run(ctx, "push-services", func(c *provisioning.Context) error {
		err := provisioning.NewPipeline(&provisioning.Batch{Label: "Pushing cloud services", Units: units}).Run(c)
		summarize(c, err)
		return err
	})
}

func pushCloudService(c *provisioning.Context, svc config.CloudService) error {
	id := c.Runtime.Identity(provider.KindCloudService, svc.Name)
	res, err := provisioning.EnsureCloudService(c, id, svc)
	if err != nil {
		return err
	}
	name := res.Handle.Name
	if svc.VIPSwap {
		c.Emitter.Info(events.Medium, fmt.Sprintf("VIP swap requested for %s", name))
	}
	if svc.DeleteStaging {
		c.Emitter.Info(events.Medium, fmt.Sprintf("Staging deployment of %s scheduled for deletion", name))
	}
	return nil
}

// selectServices filters services by name, case-insensitively. An unknown
// name is a configuration error.
func selectServices(services []config.CloudService, names []string) ([]config.CloudService, error) {
	if len(names) == 0 {
		return services, nil
	}
	out := make([]config.CloudService, 0, len(names))
	for _, name := range names {
		found := false
		for _, svc := range services {
			if strings.EqualFold(svc.Name, name) {
				out = append(out, svc)
				found = true
				break
			}
		}
		if !found {
			return nil, config.Invalid("resources.cloud_services", fmt.Sprintf("unknown cloud service %q", name))
		}
	}
	return out, nil
}

// PushConfiguration implements the package-level function.
func (r *Runner) PushConfiguration(ctx context.Context) Report {
	inv := r.rt.Config.Resources
	var units []provisioning.Unit
	add := func(kind provider.Kind, logical string, ensure func(*provisioning.Context) (provisioning.Result, error)) {
		units = append(units, provisioning.Unit{
			Name: fmt.Sprintf("%s %s", kind, logical),
			Run: func(c *provisioning.Context) error {
				_, err := ensure(c)
				return err
			},
		})
	}

	for _, sc := range inv.StorageContainers {
		add(provider.KindStorageContainer, sc.Name, func(c *provisioning.Context) (provisioning.Result, error) {
			return provisioning.EnsureStorageContainer(c, r.rt.Identity(provider.KindStorageContainer, sc.Name), sc)
		})
	}
	for _, db := range inv.SQLDatabases {
		add(provider.KindSQLDatabase, db.Name, func(c *provisioning.Context) (provisioning.Result, error) {
			return provisioning.EnsureSQLDatabase(c, r.rt.Identity(provider.KindSQLDatabase, db.Name), db)
		})
	}
	for _, ns := range inv.Namespaces {
		add(provider.KindServiceBusNamespace, ns.Name, func(c *provisioning.Context) (provisioning.Result, error) {
			return provisioning.EnsureServiceBusNamespace(c, r.rt.Identity(provider.KindServiceBusNamespace, ns.Name), ns)
		})
	}
	for _, site := range inv.WebSites {
		add(provider.KindWebSite, site.Name, func(c *provisioning.Context) (provisioning.Result, error) {
			return provisioning.EnsureWebSite(c, r.rt.Identity(provider.KindWebSite, site.Name), site)
		})
	}
	for _, ip := range inv.ReservedIPs {
		add(provider.KindReservedIP, ip.Name, func(c *provisioning.Context) (provisioning.Result, error) {
			return provisioning.EnsureReservedIP(c, r.rt.Identity(provider.KindReservedIP, ip.Name), ip)
		})
	}

	return r.run(ctx, "push-config", func(c *provisioning.Context) error {
		err := provisioning.NewPipeline(&provisioning.Batch{Label: "Pushing configuration", Units: units}).Run(c)
		summarize(c, err)
		return err
	})
}

// summarize publishes the final outcome of a push.
func summarize(c *provisioning.Context, err error) {
	if err != nil {
		return
	}
	outcomes := c.State.Outcomes()
	created := len(c.State.Created())
	c.Emitter.Info(events.High, fmt.Sprintf("Push complete: %d resources, %d created, %d already present",
		len(outcomes), created, len(outcomes)-created))
}

// ResizeVMs implements the package-level function.
func (r *Runner) ResizeVMs(ctx context.Context, names []string, size string) Report {
	if strings.TrimSpace(size) == "" {
		return Report{Err: config.Invalid("size", "a VM size is required")}
	}
	vms := r.vmNames(names)
	return r.run(ctx, "vm-resize", func(c *provisioning.Context) error {
		return provisioning.ResizeVMs(c, vms, size)
	})
}

// StopVMs implements the package-level function.
func (r *Runner) StopVMs(ctx context.Context, names []string) Report {
	vms := r.vmNames(names)
	return r.run(ctx, "vm-stop", func(c *provisioning.Context) error {
		return provisioning.StopVMs(c, vms)
	})
}

func (r *Runner) vmNames(names []string) []string {
	if len(names) > 0 {
		return names
	}
	return r.rt.Config.Resources.VirtualMachines
}

// DeleteNamespace implements the package-level function. A configured
// namespace may be given by its logical name.
func (r *Runner) DeleteNamespace(ctx context.Context, name string, force bool) Report {
	if strings.TrimSpace(name) == "" {
		return Report{Err: config.Invalid("namespace", "a namespace name is required")}
	}
	for _, ns := range r.rt.Config.Resources.Namespaces {
		if strings.EqualFold(ns.Name, name) {
			name = r.rt.Name(provider.KindServiceBusNamespace, ns.Name)
			break
		}
	}
	return r.run(ctx, "namespace-delete", func(c *provisioning.Context) error {
		return provisioning.DeleteServiceBusNamespace(c, name, force)
	})
}
