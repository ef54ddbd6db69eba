// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flexprov/cmd/flexprov/handlers"
)

// Root returns the root command for the flexprov CLI.
//
// The root command owns the flags every command shares.
func Root() *cobra.Command {
	opts := &handlers.Options{}

	cmd := &cobra.Command{
		Use:           "flexprov",
		Short:         "Provision and operate the cloud resources of a system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "flexprov.yaml", "Path to configuration file")
	flags.StringVar(&opts.SubscriptionID, "subscription-id", "", "Azure subscription id (overrides the configuration)")
	flags.StringVar(&opts.SettingsPath, "settings", "", "Path to a publish-settings file")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics to this file")
	flags.StringVar(&opts.ArchiveBucket, "archive-bucket", "", "Archive the run journal to this S3 bucket")
	flags.BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(Push(opts))
	cmd.AddCommand(VM(opts))
	cmd.AddCommand(Namespace(opts))
	cmd.AddCommand(Name())
	cmd.AddCommand(Version())

	return cmd
}
