package archive

import (
	"archive-registry/internal/config"
	domainRepo "archive-registry/internal/domain/repository"

	"go.uber.org/zap"
)

// NewSource returns the snapshot source selected by cfg.Source.
func NewSource(cfg config.RegistryConfig, logger *zap.Logger) domainRepo.SnapshotSource {
	if cfg.Source == config.SourceFile {
		return NewFileRepository(cfg.Dir, logger)
	}
	return NewRepository(cfg, logger)
}
