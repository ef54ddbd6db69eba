// Package retry provides retry and polling helpers for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable attempts,
// initial delay, maximum delay and multiplier; a multiplier of 1 gives a
// fixed delay. [Poll] repeats a condition check at a fixed interval until it
// holds or a deadline passes. Both take their timing from a juju clock so
// tests can drive them with a test clock.
package retry
