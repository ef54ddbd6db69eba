package handlers

import (
	"context"
	"fmt"
	"strings"
)

// ResizeVMs handles the vm resize command.
func ResizeVMs(ctx context.Context, opts Options, names []string, size string) error {
	s, err := setup(ctx, opts, needCompute)
	if err != nil {
		return err
	}
	targets := s.vmTargets(names)
	if err := confirm(ctx, opts,
		fmt.Sprintf("Resize %s to %s?", strings.Join(targets, ", "), size),
		"Running machines are restarted."); err != nil {
		return err
	}
	return s.finish(s.runner.ResizeVMs(ctx, targets, size), fmt.Sprintf("Resized %d virtual machines", len(targets)))
}

// StopVMs handles the vm stop command.
func StopVMs(ctx context.Context, opts Options, names []string) error {
	s, err := setup(ctx, opts, needCompute)
	if err != nil {
		return err
	}
	targets := s.vmTargets(names)
	if err := confirm(ctx, opts,
		fmt.Sprintf("Stop %s?", strings.Join(targets, ", ")),
		"The machines are deallocated."); err != nil {
		return err
	}
	return s.finish(s.runner.StopVMs(ctx, targets), fmt.Sprintf("Stopped %d virtual machines", len(targets)))
}

func (s *session) vmTargets(names []string) []string {
	if len(names) > 0 {
		return names
	}
	return s.rt.Config.Resources.VirtualMachines
}
