package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flexprov/cmd/flexprov/handlers"
)

// Push returns the push command group.
func Push(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Ensure configured resources exist",
	}
	cmd.AddCommand(pushServices(opts))
	cmd.AddCommand(pushConfig(opts))
	return cmd
}

func pushServices(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "services [NAME...]",
		Short: "Ensure the configured cloud services exist",
		Long: `Ensure the configured cloud services exist.

Without arguments every configured cloud service is pushed. Names restrict
the run to those services. Services run concurrently; a failing service
does not stop the others.

Example:
  flexprov push services -c flexprov.yaml Frontend`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.PushServices(cmd.Context(), *opts, args)
		},
	}
}

func pushConfig(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Ensure the configured storage, databases, namespaces, sites and addresses exist",
		Long: `Ensure every configured storage container, SQL database, Service Bus
namespace, web site and reserved IP exists.

Shared parents (storage accounts, SQL servers and hosting plans) are chosen
among the existing ones or created.

Example:
  flexprov push config -c flexprov.yaml --archive-bucket flex-runs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PushConfig(cmd.Context(), *opts)
		},
	}
}
