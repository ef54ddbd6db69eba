// Package s3 provides a client for S3-compatible object storage and the
// archive that uploads the event journal of a provisioning run.
//
// Archives are written to <prefix>/<run id>.jsonl. The bucket is ensured
// on first use with the same get-or-create reconciliation the cloud
// resources go through, so its phases show up in the run's own events.
package s3
