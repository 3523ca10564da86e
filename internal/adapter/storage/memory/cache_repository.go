package memory

import (
	"context"
	"fmt"
	"time"

	"archive-registry/internal/config"
	"archive-registry/internal/domain/entity"
	domainRepo "archive-registry/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.CacheRepository = (*CacheRepository)(nil)

const snapshotKey = "registry_snapshot_v1"

// CacheRepository implements domainRepo.CacheRepository using the go-cache in-memory library.
type CacheRepository struct {
	cache  *cache.Cache
	logger *zap.Logger
	ttl    time.Duration
}

// NewCacheRepository creates a new in-memory cache repository instance.
func NewCacheRepository(cfg config.CacheConfig, logger *zap.Logger) *CacheRepository {
	defaultExpiration := cfg.GetDefaultExpiration()
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(defaultExpiration, cleanupInterval)
	logger.Info(
		"Initialized go-cache for memory storage",
		zap.Duration("defaultExpiration", defaultExpiration),
		zap.Duration("cleanupInterval", cleanupInterval),
	)

	return &CacheRepository{
		cache:  c,
		logger: logger.Named("MemoryCacheStorage"),
		ttl:    defaultExpiration,
	}
}

// GetSnapshot retrieves the cached registry snapshot, returning found status.
func (r *CacheRepository) GetSnapshot(_ context.Context) (*entity.Snapshot, bool, error) {
	if x, found := r.cache.Get(snapshotKey); found {
		if snapshot, ok := x.(*entity.Snapshot); ok {
			r.logger.Debug("Memory cache hit", zap.String("key", snapshotKey))
			return snapshot, true, nil
		}
		r.logger.Warn(
			"Memory cache data type mismatch for key",
			zap.String("key", snapshotKey), zap.String("type", fmt.Sprintf("%T", x)),
		)
	}
	r.logger.Debug("Memory cache miss", zap.String("key", snapshotKey))
	return nil, false, nil
}

// SetSnapshot caches the snapshot. A non-positive ttl uses the configured default.
func (r *CacheRepository) SetSnapshot(_ context.Context, snapshot *entity.Snapshot, ttl time.Duration) error {
	if snapshot == nil {
		return fmt.Errorf("cannot cache nil snapshot")
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	r.cache.Set(snapshotKey, snapshot, ttl)
	r.logger.Debug("Memory cache set", zap.String("key", snapshotKey), zap.Duration("ttl", ttl))
	return nil
}

// Invalidate removes the cached snapshot.
func (r *CacheRepository) Invalidate(_ context.Context) error {
	r.cache.Delete(snapshotKey)
	r.logger.Debug("Memory cache invalidated", zap.String("key", snapshotKey))
	return nil
}
