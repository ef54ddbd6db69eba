package handlers

import (
	"fmt"

	"github.com/imamik/flexprov/internal/util/naming"
)

// SlotName handles the name slot command and prints the slot name.
func SlotName(system, component, branch, configuration, rootBranch string) error {
	policy := naming.DefaultPolicy()
	if rootBranch != "" {
		policy.RootBranch = rootBranch
	}
	_, err := fmt.Fprintln(stdout, policy.SlotName(system, component, branch, configuration))
	return err
}

// UpperConcat handles the name upper command.
func UpperConcat(identifier string) error {
	out, err := naming.UpperConcat(identifier)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

// MinimalName handles the name minimal command.
func MinimalName(system, component string) error {
	out, err := naming.MinimalName(system, component)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}
