// Package hcloud implements the compute surface (virtual machines and
// reserved addresses) on the Hetzner Cloud API.
//
// Servers map to virtual machines and floating IPs map to reserved
// addresses. Hetzner has no notion of deallocation, so DeallocateVM powers
// the server off. Resizing a running server powers it off first because the
// API refuses to change the type of a running server; the disk is never
// upgraded so that the resize stays reversible.
//
// Locked, conflicting and rate-limited responses are retried with the
// backoff configured in config.Timeouts. Every other API error is returned
// on the first attempt, translated into the provider error taxonomy.
package hcloud
