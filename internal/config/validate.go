package config

import (
	"fmt"
	"strings"

	"github.com/imamik/flexprov/internal/chooser"
	"github.com/imamik/flexprov/internal/provider"
)

// Validate checks the configuration for common errors. Every failure is a
// *ConfigurationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.System) == "" {
		return Invalid("system", "is required")
	}
	if strings.TrimSpace(c.Configuration) == "" {
		return Invalid("configuration", "is required")
	}
	if c.Naming.SystemMax < 0 || c.Naming.ComponentMax < 0 || c.Naming.ConfigurationMax < 0 {
		return Invalid("naming", "segment caps must not be negative")
	}

	switch c.Provider.Compute {
	case ComputeAzure, ComputeHCloud:
	default:
		return Invalid("provider.compute", fmt.Sprintf("unsupported backend %q (expected %q or %q)", c.Provider.Compute, ComputeAzure, ComputeHCloud))
	}

	for i, o := range c.Naming.Overrides {
		if _, err := provider.ParseKind(o.Kind); err != nil {
			return &ConfigurationError{Field: fmt.Sprintf("naming.overrides[%d].kind", i), Err: err}
		}
	}

	for kind, name := range c.Choosers {
		if _, err := provider.ParseKind(kind); err != nil {
			return &ConfigurationError{Field: "choosers." + kind, Err: err}
		}
		if _, err := chooser.ByName(name); err != nil {
			return &ConfigurationError{Field: "choosers." + kind, Err: err}
		}
	}

	return c.validateInventory()
}

func (c *Config) validateInventory() error {
	r := c.Resources
	checks := []struct {
		kind  string
		names []string
	}{
		{"cloud_services", names(r.CloudServices, func(e CloudService) string { return e.Name })},
		{"storage_containers", names(r.StorageContainers, func(e StorageContainer) string { return e.Name })},
		{"sql_databases", names(r.SQLDatabases, func(e SQLDatabase) string { return e.Name })},
		{"service_bus_namespaces", names(r.Namespaces, func(e Namespace) string { return e.Name })},
		{"web_sites", names(r.WebSites, func(e WebSite) string { return e.Name })},
		{"reserved_ips", names(r.ReservedIPs, func(e ReservedIP) string { return e.Name })},
		{"virtual_machines", r.VirtualMachines},
	}

	for _, check := range checks {
		seen := make(map[string]bool, len(check.names))
		for i, n := range check.names {
			if strings.TrimSpace(n) == "" {
				return Invalid(describe(check.kind, i, ""), "name is required")
			}
			key := strings.ToLower(n)
			if seen[key] {
				return Invalid(describe(check.kind, i, n), "duplicate name")
			}
			seen[key] = true
		}
	}
	return nil
}

func names[T any](entries []T, name func(T) string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, name(e))
	}
	return out
}
