// Package repository holds the published, read-only dataset that every
// report is computed from.
package repository

import (
	"context"
)

// Store publishes and serves immutable dataset snapshots.
type Store interface {
	// Publish replaces the current snapshot.
	Publish(ctx context.Context, ds *Dataset) error
	// Snapshot returns the current snapshot or ErrNoData.
	Snapshot(ctx context.Context) (*Dataset, error)
}
