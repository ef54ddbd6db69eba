package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imamik/flexprov/internal/util/naming"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Field: "file", Reason: "cannot read " + path, Err: err}
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, &ConfigurationError{Reason: "invalid yaml", Err: err}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RootBranch == "" {
		c.RootBranch = naming.DefaultRootBranch
	}
	if c.Naming.SystemMax == 0 {
		c.Naming.SystemMax = naming.DefaultSystemMax
	}
	if c.Naming.ComponentMax == 0 {
		c.Naming.ComponentMax = naming.DefaultComponentMax
	}
	if c.Naming.ConfigurationMax == 0 {
		c.Naming.ConfigurationMax = naming.DefaultConfigurationMax
	}
	c.Provider.Compute = strings.ToLower(strings.TrimSpace(c.Provider.Compute))
	if c.Provider.Compute == "" {
		c.Provider.Compute = ComputeAzure
	}
	if c.Provider.Azure.Location == "" {
		c.Provider.Azure.Location = "westeurope"
	}
	if c.Provider.HCloud.TokenEnv == "" {
		c.Provider.HCloud.TokenEnv = "HCLOUD_TOKEN"
	}
	if c.Provider.HCloud.Location == "" {
		c.Provider.HCloud.Location = "fsn1"
	}
	if c.Archive.Prefix == "" {
		c.Archive.Prefix = "runs"
	}
}

// Policy returns the naming policy described by the configuration.
func (c *Config) Policy() naming.Policy {
	return naming.Policy{
		RootBranch:       c.RootBranch,
		SystemMax:        c.Naming.SystemMax,
		ComponentMax:     c.Naming.ComponentMax,
		ConfigurationMax: c.Naming.ConfigurationMax,
	}
}

func describe(kind string, i int, name string) string {
	if name == "" {
		return fmt.Sprintf("resources.%s[%d]", kind, i)
	}
	return fmt.Sprintf("resources.%s[%s]", kind, name)
}
