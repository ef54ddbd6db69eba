// Package config loads the provisioning configuration and builds the
// per-command [Runtime].
//
// Configuration comes from three places: a YAML file describing the system
// and its resource inventory, an optional publish-settings file holding the
// subscription and management certificate, and the environment (SQL
// credentials and timeouts). Everything a command needs is gathered into a
// Runtime value that is passed explicitly; the package keeps no process-wide
// state.
package config
