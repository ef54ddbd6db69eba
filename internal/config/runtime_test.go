package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flexprov/internal/chooser"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/provider/fake"
	"github.com/imamik/flexprov/internal/util/naming"
)

func TestNewRuntime(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	cloud := fake.New()

	rt, err := NewRuntime(cfg, WithCloud(cloud), WithTimeouts(&Timeouts{VMPollInterval: 1}))
	require.NoError(t, err)

	assert.Same(t, cloud, rt.Cloud)
	assert.Same(t, cloud, rt.Compute)
	assert.NotNil(t, rt.Metrics)
	assert.NotNil(t, rt.Gate)
	assert.IsType(t, chooser.LeastLoaded{}, rt.Choosers.For(provider.KindHostingPlan))
	assert.IsType(t, chooser.Default{}, rt.Choosers.For(provider.KindSQLServer))

	assert.Equal(t, "tsysr1-gateway-test-ip", rt.Name(provider.KindReservedIP, "Gateway"))
	assert.Equal(t, "tsysr1-portal-test", rt.Name(provider.KindWebSite, "Portal"))
}

func TestNewRuntime_DuplicateOverride(t *testing.T) {
	cfg := &Config{
		System:        "tsys",
		Configuration: "TEST",
		Naming: NamingConfig{Overrides: []NamingOverride{
			{Kind: "WebSite", Template: "{slot}"},
			{Kind: "website", Template: "{system}-{component}"},
		}},
	}
	cfg.applyDefaults()

	_, err := NewRuntime(cfg, WithTimeouts(&Timeouts{}))

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "naming.overrides[1]", ce.Field)
	assert.ErrorIs(t, err, naming.ErrDuplicateOverride)
}

func TestNewRuntime_NilConfig(t *testing.T) {
	_, err := NewRuntime(nil)
	assert.True(t, IsConfigurationError(err))
}
