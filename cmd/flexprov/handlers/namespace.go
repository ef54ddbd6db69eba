package handlers

import (
	"context"
	"fmt"
)

// DeleteNamespace handles the namespace delete command.
//
// With force a namespace that does not exist is not an error.
func DeleteNamespace(ctx context.Context, opts Options, name string, force bool) error {
	s, err := setup(ctx, opts, needCloud)
	if err != nil {
		return err
	}
	if err := confirm(ctx, opts,
		fmt.Sprintf("Delete Service Bus namespace %s?", name),
		"All queues and topics of the namespace are deleted."); err != nil {
		return err
	}
	return s.finish(s.runner.DeleteNamespace(ctx, name, force), fmt.Sprintf("Service Bus namespace %s is gone", name))
}
