package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/flexprov/cmd/flexprov/handlers"
)

// Name returns the name command group.
func Name() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name",
		Short: "Compute resource names",
	}
	cmd.AddCommand(nameSlot())
	cmd.AddCommand(nameUpper())
	cmd.AddCommand(nameMinimal())
	return cmd
}

func nameSlot() *cobra.Command {
	var rootBranch string

	cmd := &cobra.Command{
		Use:   "slot SYSTEM COMPONENT BRANCH CONFIGURATION",
		Short: "Print the slot name of a component",
		Example: `  flexprov name slot FundingStream Portal Release10 TEST
  fundr1-portal-test`,
		Args: cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			return handlers.SlotName(args[0], args[1], args[2], args[3], rootBranch)
		},
	}

	cmd.Flags().StringVar(&rootBranch, "root-branch", "Main", "Branch that gets no branch suffix")

	return cmd
}

func nameUpper() *cobra.Command {
	return &cobra.Command{
		Use:     "upper IDENTIFIER",
		Short:   "Print the lower-cased capitals of a CamelCase identifier",
		Example: "  flexprov name upper FundingStreamConfig\n  fsc",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return handlers.UpperConcat(args[0])
		},
	}
}

func nameMinimal() *cobra.Command {
	return &cobra.Command{
		Use:     "minimal SYSTEM COMPONENT",
		Short:   "Print the compact name used where slot names are too long",
		Example: "  flexprov name minimal Flex FundingStreamConfig\n  flex-fsc",
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return handlers.MinimalName(args[0], args[1])
		},
	}
}
