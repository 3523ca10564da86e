package repository

import (
	"context"

	"archive-registry/internal/domain/entity"
)

// SnapshotSource loads a complete registry snapshot from the underlying data source.
type SnapshotSource interface {
	// Load retrieves all archive registries and network metadata in one snapshot.
	Load(ctx context.Context) (*entity.Snapshot, error)
}

// SnapshotWriter persists a snapshot, e.g. the output of a version refresh.
type SnapshotWriter interface {
	// Save writes the snapshot to the destination identified by path.
	Save(ctx context.Context, snapshot *entity.Snapshot, path string) error
}
