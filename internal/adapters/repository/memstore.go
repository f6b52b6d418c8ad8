package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/askoki/orijent-soccer-analytics/pkg/metrics"
)

// MemoryStore keeps the current Dataset behind an atomic pointer so reads
// never block a publish.
type MemoryStore struct {
	snapshot atomic.Pointer[Dataset]
	version  atomic.Uint64
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish stamps ds with the next version and makes it current.
func (s *MemoryStore) Publish(ctx context.Context, ds *Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ds == nil {
		return ErrNoData
	}
	ds.Version = s.version.Add(1)
	ds.PublishedAt = s.now()
	s.snapshot.Store(ds)

	metrics.UpdateDatasetRecords("gps", len(ds.sessions))
	metrics.UpdateDatasetRecords("rpe", len(ds.responses))
	metrics.UpdateDatasetRecords("athletes", len(ds.athletes))
	metrics.UpdateLastRefresh(ds.PublishedAt.Unix())
	return nil
}

// Snapshot returns the current dataset.
func (s *MemoryStore) Snapshot(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds := s.snapshot.Load()
	if ds == nil {
		return nil, ErrNoData
	}
	return ds, nil
}
