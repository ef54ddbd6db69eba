// Package orchestration runs the top-level commands.
//
// Every command runs as one event-stream run: the work executes in the
// background through threadqueue.Bridge while the calling goroutine drains
// the published events into the sinks (console, metrics, journal). After the
// work has finished the journal is archived, if an archive is configured,
// and a Report is returned.
//
// # Commands
//
//   - PushCloudServices ensures the configured cloud services.
//   - PushConfiguration ensures storage containers, SQL databases, Service
//     Bus namespaces, web sites and reserved IPs.
//   - ResizeVMs and StopVMs change the configured or named VMs.
//   - DeleteNamespace deletes a Service Bus namespace.
//
// Units of a command run concurrently; every failed unit is reported in
// the returned error.
//
// # Usage
//
//	runner := orchestration.NewRunner(rt, orchestration.WithConsole(events.NewConsole(os.Stdout)))
//	report := runner.PushConfiguration(ctx)
//	if report.Err != nil {
//		return report.Err
//	}
package orchestration
