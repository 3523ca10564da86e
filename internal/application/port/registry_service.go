package port

import (
	"context"

	"archive-registry/internal/domain/entity"
)

// RegistryService defines the read side of the archive registry used by delivery layers.
type RegistryService interface {
	// LookupProviders returns every provider of the network matching the criteria.
	LookupProviders(ctx context.Context, network string, criteria entity.FilterCriteria) ([]entity.Provider, error)

	// ResolveEndpoint returns the data source URL of the first matching provider.
	ResolveEndpoint(ctx context.Context, network string, criteria entity.FilterCriteria) (string, error)

	// GetNetworkInfo returns metadata of the network, optionally narrowed by genesis hash.
	GetNetworkInfo(ctx context.Context, network, genesis string) (entity.NetworkInfo, error)

	// ListArchives lists providers of one family (or both when family is empty),
	// optionally restricted to a release.
	ListArchives(ctx context.Context, family entity.Family, release string) ([]entity.ArchiveListing, error)

	// Reload replaces the current snapshot with a fresh one from the source.
	Reload(ctx context.Context) (*entity.Snapshot, error)
}
