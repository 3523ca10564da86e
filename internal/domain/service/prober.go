package service

import (
	"context"

	"archive-registry/internal/domain/entity"
)

// Prober queries a live archive for facts recorded in the registry.
type Prober interface {
	// Version returns the indexer version reported by the archive.
	Version(ctx context.Context, url entity.EndpointURL) (string, error)

	// GenesisHash returns the hash of the block at height 0.
	GenesisHash(ctx context.Context, url entity.EndpointURL) (string, error)
}
