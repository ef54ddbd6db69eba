// Package provider defines the boundary between the provisioning core and
// the cloud backends.
//
// Every backend (Azure Resource Manager, Hetzner Cloud, the in-memory fake)
// exposes the same small get/list/create surface per resource kind and
// reports absence with [ErrNotFound]. Backend-specific failures are
// normalized into [FaultDetail] so callers never inspect SDK error types.
package provider
