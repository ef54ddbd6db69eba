package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSecrets(t *testing.T) {
	t.Setenv("FlexSaUser", "sa")
	t.Setenv("FlexSaPwd", "sa-pass")
	t.Setenv("FlexAppUser", "app")
	t.Setenv("FlexAppPwd", "")

	s, err := LoadSecrets()
	require.NoError(t, err)

	assert.Equal(t, "sa", s.SaUser)
	assert.Equal(t, "sa-pass", s.SaPwd)
	assert.Equal(t, "app", s.AppUser)
	assert.Empty(t, s.AppPwd)
	assert.False(t, s.HasAppCredentials())

	user, pwd, err := s.SQLAdmin()
	require.NoError(t, err)
	assert.Equal(t, "sa", user)
	assert.Equal(t, "sa-pass", pwd)
}

func TestSecrets_SQLAdminMissing(t *testing.T) {
	_, _, err := Secrets{SaUser: "sa"}.SQLAdmin()

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "FlexSaPwd", ce.Field)

	_, _, err = Secrets{}.SQLAdmin()
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "FlexSaUser", ce.Field)
}
