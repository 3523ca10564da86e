package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"archive-registry/internal/domain/entity"
	domainRepo "archive-registry/internal/domain/repository"

	"go.uber.org/zap"
)

// Store hands out the current registry snapshot. Snapshots are replaced
// wholesale and never mutated, so callers may keep one for a batch of lookups.
type Store struct {
	source domainRepo.SnapshotSource
	cache  domainRepo.CacheRepository
	ttl    time.Duration
	logger *zap.Logger

	reloadMu sync.Mutex
	last     atomic.Pointer[entity.Snapshot]
}

// NewStore creates a store loading from source and caching in cache for ttl.
func NewStore(source domainRepo.SnapshotSource, cache domainRepo.CacheRepository, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("RegistryStore"),
	}
}

// Snapshot returns the cached snapshot, loading it from the source on a miss.
// When a reload fails the last good snapshot is served.
func (s *Store) Snapshot(ctx context.Context) (*entity.Snapshot, error) {
	snapshot, found, err := s.cache.GetSnapshot(ctx)
	if err != nil {
		s.logger.Warn("Cache error when getting registry snapshot", zap.Error(err))
	}
	if found {
		return snapshot, nil
	}

	snapshot, err = s.reloadMissing(ctx)
	if err == nil {
		return snapshot, nil
	}
	if last := s.last.Load(); last != nil {
		s.logger.Warn("Registry reload failed, serving last loaded snapshot",
			zap.Time("loadedAt", last.LoadedAt), zap.Error(err),
		)
		return last, nil
	}
	return nil, err
}

// Reload fetches a new snapshot from the source and installs it.
func (s *Store) Reload(ctx context.Context) (*entity.Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (*entity.Snapshot, error) {
	s.logger.Debug("Loading registry snapshot from source")
	snapshot, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading registry snapshot: %w", err)
	}
	s.install(ctx, snapshot)
	return snapshot, nil
}

// reloadMissing loads from the source unless a concurrent caller installed
// a snapshot while this one waited for the lock.
func (s *Store) reloadMissing(ctx context.Context) (*entity.Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if snapshot, found, err := s.cache.GetSnapshot(ctx); err == nil && found {
		return snapshot, nil
	}
	return s.load(ctx)
}

// Replace installs a snapshot built elsewhere, e.g. by a version refresh.
func (s *Store) Replace(ctx context.Context, snapshot *entity.Snapshot) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.install(ctx, snapshot)
}

func (s *Store) install(ctx context.Context, snapshot *entity.Snapshot) {
	s.last.Store(snapshot)
	if err := s.cache.SetSnapshot(ctx, snapshot, s.ttl); err != nil {
		s.logger.Error("Failed to cache registry snapshot", zap.Error(err))
	}
	s.logger.Info("Installed registry snapshot",
		zap.Int("substrate", len(snapshot.Substrate.Archives)),
		zap.Int("evm", len(snapshot.EVM.Archives)),
		zap.Int("networks", len(snapshot.Networks.Networks)),
	)
}
