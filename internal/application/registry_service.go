package application

import (
	"context"
	"time"

	"archive-registry/internal/application/port"
	"archive-registry/internal/config"
	"archive-registry/internal/domain/entity"
	"archive-registry/internal/domain/lookup"

	"go.uber.org/zap"
)

// Compile-time check to ensure registryService implements RegistryService
var _ port.RegistryService = (*registryService)(nil)

// registryService implements port.RegistryService on top of the store and the lookup engine.
type registryService struct {
	store    *Store
	defaults lookup.Defaults
	logger   *zap.Logger
	cfg      config.Config
	rootCtx  context.Context
}

// NewRegistryService creates the registry service. When a refresh interval is
// configured, a background goroutine reloads the snapshot until rootCtx ends.
func NewRegistryService(rootCtx context.Context, store *Store, logger *zap.Logger, cfg config.Config) port.RegistryService {
	s := &registryService{
		store: store,
		defaults: lookup.Defaults{
			SubstrateRelease: cfg.Lookup.DefaultRelease.Substrate,
			EVMRelease:       cfg.Lookup.DefaultRelease.EVM,
		},
		logger:  logger.Named("RegistryService"),
		cfg:     cfg,
		rootCtx: rootCtx,
	}

	go s.startBackgroundReload()

	return s
}

// LookupProviders resolves the family like ResolveEndpoint but returns every match.
func (s *registryService) LookupProviders(ctx context.Context, network string, criteria entity.FilterCriteria) ([]entity.Provider, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	family := criteria.Family
	if family == "" {
		if family, err = lookup.DetectFamily(snapshot, network); err != nil {
			return nil, err
		}
	}
	registry, _ := snapshot.Registry(family)

	providers, err := lookup.LookupProviders(registry, network, criteria)
	if err != nil {
		s.logger.Debug("Provider lookup failed", zap.String("network", network), zap.Error(err))
		return nil, err
	}
	return providers, nil
}

// ResolveEndpoint returns the endpoint of the first matching provider, applying the default release.
func (s *registryService) ResolveEndpoint(ctx context.Context, network string, criteria entity.FilterCriteria) (string, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	endpoint, err := lookup.ResolveEndpoint(snapshot, network, criteria, s.defaults)
	if err != nil {
		s.logger.Debug("Endpoint resolution failed", zap.String("network", network), zap.Error(err))
		return "", err
	}
	return endpoint, nil
}

// GetNetworkInfo returns network metadata from the current snapshot.
func (s *registryService) GetNetworkInfo(ctx context.Context, network, genesis string) (entity.NetworkInfo, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return entity.NetworkInfo{}, err
	}
	return lookup.GetNetworkInfo(snapshot.Networks, network, genesis)
}

// ListArchives lists provider rows in registry order. With no family, EVM rows come first.
func (s *registryService) ListArchives(ctx context.Context, family entity.Family, release string) ([]entity.ArchiveListing, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var registries []entity.Registry
	switch family {
	case entity.FamilyEVM:
		registries = []entity.Registry{snapshot.EVM}
	case entity.FamilySubstrate:
		registries = []entity.Registry{snapshot.Substrate}
	default:
		registries = []entity.Registry{snapshot.EVM, snapshot.Substrate}
	}

	var rows []entity.ArchiveListing
	for _, reg := range registries {
		for _, a := range reg.Archives {
			for _, p := range a.Providers {
				if release != "" && p.Release != release {
					continue
				}
				rows = append(rows, entity.ArchiveListing{
					Family:   reg.Family,
					Network:  a.Network,
					Provider: p.Provider,
					Release:  p.Release,
					Endpoint: p.DataSourceURL,
				})
			}
		}
	}
	return rows, nil
}

// Reload forces a fresh snapshot from the source.
func (s *registryService) Reload(ctx context.Context) (*entity.Snapshot, error) {
	return s.store.Reload(ctx)
}

// startBackgroundReload periodically reloads the registry snapshot.
func (s *registryService) startBackgroundReload() {
	interval := s.cfg.Registry.GetRefreshInterval()
	if interval <= 0 {
		s.logger.Debug("Background reload disabled (interval <= 0)")
		return
	}

	s.logger.Info("Starting background reload", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.store.Reload(s.rootCtx); err != nil {
				if s.rootCtx.Err() != nil {
					s.logger.Warn("Background reload cancelled due to application shutdown")
					return
				}
				s.logger.Error("Background reload failed, keeping current snapshot", zap.Error(err))
			}
		case <-s.rootCtx.Done():
			s.logger.Info("Background reload stopping due to context cancellation.")
			return
		}
	}
}
