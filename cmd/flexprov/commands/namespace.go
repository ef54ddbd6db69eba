package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flexprov/cmd/flexprov/handlers"
)

// Namespace returns the namespace command group.
func Namespace(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "namespace",
		Short: "Manage Service Bus namespaces",
	}
	cmd.AddCommand(namespaceDelete(opts))
	return cmd
}

func namespaceDelete(opts *handlers.Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a Service Bus namespace",
		Long: `Delete a Service Bus namespace and wait until it is gone.

NAME is either the resource name or the logical name of a configured
namespace. Deletion is retried until the namespace no longer exists.

WARNING: This operation is irreversible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DeleteNamespace(cmd.Context(), *opts, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Succeed when the namespace does not exist")

	return cmd
}
