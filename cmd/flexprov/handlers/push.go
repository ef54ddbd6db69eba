package handlers

import (
	"context"
)

// PushServices handles the push services command.
//
// It ensures the configured cloud services, optionally restricted to names.
func PushServices(ctx context.Context, opts Options, names []string) error {
	s, err := setup(ctx, opts, needCloud)
	if err != nil {
		return err
	}
	return s.finish(s.runner.PushCloudServices(ctx, names), "Cloud services are up to date")
}

// PushConfig handles the push config command.
//
// It ensures storage containers, SQL databases, Service Bus namespaces, web
// sites and reserved IPs.
func PushConfig(ctx context.Context, opts Options) error {
	s, err := setup(ctx, opts, needCloud)
	if err != nil {
		return err
	}
	return s.finish(s.runner.PushConfiguration(ctx), "Configuration is up to date")
}
