package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flexprov/cmd/flexprov/handlers"
)

// VM returns the vm command group.
func VM(opts *handlers.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vm",
		Short: "Resize or stop virtual machines",
	}
	cmd.AddCommand(vmResize(opts))
	cmd.AddCommand(vmStop(opts))
	return cmd
}

func vmResize(opts *handlers.Options) *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "resize [NAME...]",
		Short: "Change the size of virtual machines",
		Long: `Change the size of virtual machines and wait until they run again.

Without arguments every configured virtual machine is resized. A machine
that already has the size is only started if it is stopped.

Example:
  flexprov vm resize --size Standard_D4s_v5 flex-web-1 flex-web-2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ResizeVMs(cmd.Context(), *opts, args, size)
		},
	}

	cmd.Flags().StringVarP(&size, "size", "s", "", "Target VM size (required)")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func vmStop(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [NAME...]",
		Short: "Deallocate virtual machines",
		Long: `Deallocate virtual machines.

Without arguments every configured virtual machine is stopped. Machines
that are already deallocated are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.StopVMs(cmd.Context(), *opts, args)
		},
	}
}
