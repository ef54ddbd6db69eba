// Package events carries provisioning progress from reconcilers to sinks.
//
// A [Stream] is scoped to one orchestration run and is live-only: a
// subscriber sees events published after it subscribed and nothing before.
// Handlers are invoked inline by Publish, in subscription order, and must
// not block; sinks that do real work subscribe through a queue (see the
// threadqueue package). A panicking handler is logged and skipped for that
// event.
//
// Progress events carry their own sub-stream of percentage ticks, reachable
// through [Progress.OnTick].
package events
