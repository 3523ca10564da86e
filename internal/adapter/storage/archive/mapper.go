package archive

import (
	dto "archive-registry/internal/adapter/storage/archive/dto"
	"archive-registry/internal/domain/entity"

	"go.uber.org/zap"
)

// firstNonEmpty returns the canonical value when set, otherwise the legacy one.
func firstNonEmpty(canonical, legacy string) string {
	if canonical != "" {
		return canonical
	}
	return legacy
}

// toDomainRegistry converts a raw archives document to the canonical domain shape.
// Providers without a usable data source URL are dropped with a warning.
func toDomainRegistry(family entity.Family, raw dto.ArchiveRegistryRaw, logger *zap.Logger) entity.Registry {
	registry := entity.Registry{Family: family}
	if raw.Archives == nil {
		return registry
	}

	registry.Archives = make([]entity.NetworkEntry, 0, len(raw.Archives))
	for _, a := range raw.Archives {
		entry := entity.NetworkEntry{
			Network:     a.Network,
			GenesisHash: a.GenesisHash,
			Providers:   make([]entity.Provider, 0, len(a.Providers)),
		}

		for _, p := range a.Providers {
			rawURL := firstNonEmpty(p.DataSourceURL, p.URL)
			dataSourceURL, err := entity.NewEndpointURL(rawURL)
			if err != nil {
				if logger != nil {
					logger.Warn("Skipping provider with invalid data source URL",
						zap.String("family", string(family)),
						zap.String("network", a.Network),
						zap.String("provider", p.Provider),
						zap.Error(err))
				}
				continue
			}

			var explorerURL entity.EndpointURL
			if rawExplorer := firstNonEmpty(p.ExplorerURL, p.LegacyExplorerURL); rawExplorer != "" {
				explorerURL, err = entity.NewEndpointURL(rawExplorer)
				if err != nil && logger != nil {
					logger.Warn("Ignoring invalid explorer URL",
						zap.String("network", a.Network),
						zap.String("provider", p.Provider),
						zap.Error(err))
				}
			}

			entry.Providers = append(entry.Providers, entity.Provider{
				Provider:      p.Provider,
				Release:       firstNonEmpty(p.Release, p.Version),
				DataSourceURL: dataSourceURL,
				ExplorerURL:   explorerURL,
				Image:         p.Image,
				Gateway:       p.Gateway,
				Ingest:        p.Ingest,
				Ingester:      p.Ingester,
				Worker:        p.Worker,
			})
		}
		registry.Archives = append(registry.Archives, entry)
	}
	return registry
}

// toDomainNetworks converts a raw networks document to domain metadata.
func toDomainNetworks(raw dto.NetworkRegistryRaw) entity.NetworkRegistry {
	if raw.Networks == nil {
		return entity.NetworkRegistry{}
	}
	networks := make([]entity.NetworkInfo, len(raw.Networks))
	for i, n := range raw.Networks {
		networks[i] = entity.NetworkInfo{
			Name:        n.Name,
			DisplayName: n.DisplayName,
			Tokens:      n.Tokens,
			Website:     n.Website,
			Description: n.Description,
			RelayChain:  n.RelayChain,
			ParachainID: n.ParachainID,
			GenesisHash: n.GenesisHash,
		}
	}
	return entity.NetworkRegistry{Networks: networks}
}

// toRawRegistry converts a domain registry back to the canonical raw schema.
func toRawRegistry(registry entity.Registry) dto.ArchiveRegistryRaw {
	raw := dto.ArchiveRegistryRaw{Archives: make([]dto.ArchiveEntryRaw, len(registry.Archives))}
	for i, a := range registry.Archives {
		providers := make([]dto.ProviderRaw, len(a.Providers))
		for j, p := range a.Providers {
			providers[j] = dto.ProviderRaw{
				Provider:      p.Provider,
				Release:       p.Release,
				DataSourceURL: p.DataSourceURL.String(),
				ExplorerURL:   p.ExplorerURL.String(),
				Image:         p.Image,
				Gateway:       p.Gateway,
				Ingest:        p.Ingest,
				Ingester:      p.Ingester,
				Worker:        p.Worker,
			}
		}
		raw.Archives[i] = dto.ArchiveEntryRaw{
			Network:     a.Network,
			GenesisHash: a.GenesisHash,
			Providers:   providers,
		}
	}
	return raw
}

// toRawNetworks converts domain metadata back to the raw schema.
func toRawNetworks(registry entity.NetworkRegistry) dto.NetworkRegistryRaw {
	raw := dto.NetworkRegistryRaw{Networks: make([]dto.NetworkRaw, len(registry.Networks))}
	for i, n := range registry.Networks {
		raw.Networks[i] = dto.NetworkRaw{
			Name:        n.Name,
			DisplayName: n.DisplayName,
			Tokens:      n.Tokens,
			Website:     n.Website,
			Description: n.Description,
			RelayChain:  n.RelayChain,
			ParachainID: n.ParachainID,
			GenesisHash: n.GenesisHash,
		}
	}
	return raw
}
