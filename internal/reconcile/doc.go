// Package reconcile implements the ensure-exists protocol shared by every
// provisioned resource kind.
//
// An [Operation] looks a resource up by name and creates it only when the
// lookup reports it absent. Lookups that fail for any other reason abort the
// operation. Progress is published through an events.Emitter so callers can
// follow which resources were found and which were provisioned.
//
// [Gate] serializes choose-or-create sequences that must not run
// concurrently for the same key.
package reconcile
