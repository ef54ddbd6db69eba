package config

import (
	"fmt"

	"github.com/vrischmann/envconfig"
)

// Secrets holds the SQL credentials read from the environment. Absent
// variables leave the field empty; callers validate before use.
type Secrets struct {
	SaUser  string `envconfig:"FlexSaUser"`
	SaPwd   string `envconfig:"FlexSaPwd"`
	AppUser string `envconfig:"FlexAppUser"`
	AppPwd  string `envconfig:"FlexAppPwd"`
}

// LoadSecrets reads the credential variables.
func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := envconfig.InitWithOptions(&s, envconfig.Options{AllOptional: true}); err != nil {
		return Secrets{}, fmt.Errorf("failed to read secrets from environment: %w", err)
	}
	return s, nil
}

// SQLAdmin returns the SQL administrator credentials or a ConfigurationError
// naming the missing variable.
func (s Secrets) SQLAdmin() (user, password string, err error) {
	if s.SaUser == "" {
		return "", "", Invalid("FlexSaUser", "environment variable is not set")
	}
	if s.SaPwd == "" {
		return "", "", Invalid("FlexSaPwd", "environment variable is not set")
	}
	return s.SaUser, s.SaPwd, nil
}

// HasAppCredentials reports whether both application credentials are set.
func (s Secrets) HasAppCredentials() bool {
	return s.AppUser != "" && s.AppPwd != ""
}
