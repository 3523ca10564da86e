package repository

import (
	"context"
	"time"

	"archive-registry/internal/domain/entity"
)

// CacheRepository defines the interface for caching the loaded registry snapshot.
type CacheRepository interface {
	// GetSnapshot retrieves the cached snapshot and whether it was found.
	GetSnapshot(ctx context.Context) (*entity.Snapshot, bool, error)

	// SetSnapshot stores the snapshot in the cache with a specified TTL.
	SetSnapshot(ctx context.Context, snapshot *entity.Snapshot, ttl time.Duration) error

	// Invalidate drops the cached snapshot.
	Invalidate(ctx context.Context) error
}
