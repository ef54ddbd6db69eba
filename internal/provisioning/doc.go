// Package provisioning reconciles the resources of one system.
//
// Every Ensure function follows the same protocol through
// reconcile.Operation: look the resource up by its slot name and create it
// only when it is absent. Resources that live on a shared parent (storage
// containers, SQL databases, web sites) first pick the parent with the
// chooser registered for the parent kind and create a shared parent when
// none fits. Hosting plan selection runs inside a named gate so that
// concurrent web sites never create duplicate plans.
//
// Virtual machines are never created. ResizeVM and StopVM drive an existing
// VM towards a desired state instead.
//
// # Core Types
//
// Context carries the runtime, the event emitter, the shared State and a
// logger. Phase is one step of a Pipeline; Batch is a phase whose units run
// concurrently and fail independently.
package provisioning
