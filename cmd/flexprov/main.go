// Package main is the entry point for the flexprov CLI.
//
// flexprov provisions the cloud resources of a system: cloud services,
// storage containers, SQL databases, Service Bus namespaces, web sites and
// reserved IPs. Shared parents are chosen or created on demand and every
// name is derived from the system, component, branch and configuration.
//
// Commands: push, vm, namespace, name, version.
//
// For detailed usage information, run:
//
//	flexprov --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/flexprov/cmd/flexprov/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
