package port

import (
	"context"

	"archive-registry/internal/domain/entity"
)

// MaintenanceService defines the registry upkeep operations that probe live archives.
type MaintenanceService interface {
	// RefreshVersions probes every provider for its version and installs a new
	// snapshot carrying the reported releases. Per-provider failures are reported, not returned.
	RefreshVersions(ctx context.Context) (*entity.Snapshot, []entity.VersionReport, error)

	// VerifyGenesisHashes compares each provider's reported genesis hash with the recorded one.
	VerifyGenesisHashes(ctx context.Context) ([]entity.GenesisReport, error)
}
