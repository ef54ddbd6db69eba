package s3

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/metrics"
	"github.com/imamik/flexprov/internal/provider"
	"github.com/imamik/flexprov/internal/reconcile"
)

// ObjectStore is the subset of Client the archive needs.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
}

var _ ObjectStore = (*Client)(nil)

// Archive uploads run journals to a bucket.
type Archive struct {
	store   ObjectStore
	bucket  string
	prefix  string
	metrics *metrics.Recorder

	once      sync.Once
	ensureErr error
}

// NewArchive returns an archive writing to bucket under prefix.
func NewArchive(store ObjectStore, bucket, prefix string, rec *metrics.Recorder) *Archive {
	return &Archive{store: store, bucket: bucket, prefix: prefix, metrics: rec}
}

// Key returns the object key of runID's journal.
func (a *Archive) Key(runID string) string {
	return path.Join(a.prefix, runID+".jsonl")
}

// Ensure makes sure the bucket exists. Only the first call does any work.
func (a *Archive) Ensure(ctx context.Context, emitter events.Emitter) error {
	a.once.Do(func() {
		op := &reconcile.Operation[*provider.Resource]{
			Kind: provider.KindArchiveBucket,
			Name: a.bucket,
			Get:  a.getBucket,
			Create: func(ctx context.Context) (*provider.Resource, error) {
				if err := a.store.CreateBucket(ctx, a.bucket); err != nil {
					return nil, err
				}
				return a.bucketResource(), nil
			},
		}
		_, a.ensureErr = op.Execute(ctx, emitter, reconcile.WithMetrics(a.metrics))
	})
	return a.ensureErr
}

func (a *Archive) getBucket(ctx context.Context, name string) (*provider.Resource, error) {
	ok, err := a.store.BucketExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, provider.NotFound(provider.KindArchiveBucket, name)
	}
	return a.bucketResource(), nil
}

func (a *Archive) bucketResource() *provider.Resource {
	return &provider.Resource{Kind: provider.KindArchiveBucket, Name: a.bucket}
}

// Upload ensures the bucket and writes the journal of runID. An empty
// journal is not uploaded.
func (a *Archive) Upload(ctx context.Context, emitter events.Emitter, runID string, journal *events.Journal) (string, error) {
	if journal == nil || journal.Len() == 0 {
		return "", nil
	}
	if err := a.Ensure(ctx, emitter); err != nil {
		return "", err
	}
	key := a.Key(runID)
	if err := a.store.PutObject(ctx, a.bucket, key, "application/x-ndjson", journal.Bytes()); err != nil {
		return "", fmt.Errorf("failed to archive run %s: %w", runID, err)
	}
	return key, nil
}
