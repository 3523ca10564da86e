package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"archive-registry/internal/domain/entity"
	domainRepo "archive-registry/internal/domain/repository"
	"archive-registry/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time checks
var (
	_ domainRepo.SnapshotSource = (*FileRepository)(nil)
	_ domainRepo.SnapshotWriter = (*FileRepository)(nil)
)

// Document base names inside a registry directory.
const (
	SubstrateFile = "archives"
	EVMFile       = "archives-evm"
	NetworksFile  = "networks"
)

// extensions is the lookup order for document files.
var extensions = []string{".json", ".yaml", ".yml"}

// FileRepository loads and saves registry snapshots in a local directory.
type FileRepository struct {
	dir    string
	logger *zap.Logger
}

// NewFileRepository creates a repository rooted at dir.
func NewFileRepository(dir string, logger *zap.Logger) *FileRepository {
	return &FileRepository{
		dir:    dir,
		logger: logger.Named("ArchiveFileStorage"),
	}
}

// Load reads every document present in the directory. Missing documents
// leave their collection empty; at least one archives document is required.
func (r *FileRepository) Load(_ context.Context) (*entity.Snapshot, error) {
	snapshot := &entity.Snapshot{
		Substrate: entity.Registry{Family: entity.FamilySubstrate},
		EVM:       entity.Registry{Family: entity.FamilyEVM},
	}

	found := 0
	for _, src := range []struct {
		family entity.Family
		name   string
		dst    *entity.Registry
	}{
		{entity.FamilySubstrate, SubstrateFile, &snapshot.Substrate},
		{entity.FamilyEVM, EVMFile, &snapshot.EVM},
	} {
		data, path, err := r.readDocument(src.name)
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("Registry document not present", zap.String("name", src.name))
			continue
		}
		if err != nil {
			return nil, err
		}
		raw, err := decodeArchives(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		*src.dst = toDomainRegistry(src.family, raw, r.logger)
		found++
	}

	if found == 0 {
		return nil, fmt.Errorf("%w: no archives document in %s", apperrors.ErrInvalidRegistry, r.dir)
	}

	data, path, err := r.readDocument(NetworksFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		raw, err := decodeNetworks(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		snapshot.Networks = toDomainNetworks(raw)
	}

	snapshot.LoadedAt = time.Now()
	r.logger.Info("Loaded registry from directory",
		zap.String("dir", r.dir),
		zap.Int("substrate", len(snapshot.Substrate.Archives)),
		zap.Int("evm", len(snapshot.EVM.Archives)),
		zap.Int("networks", len(snapshot.Networks.Networks)),
	)
	return snapshot, nil
}

func (r *FileRepository) readDocument(name string) ([]byte, string, error) {
	for _, ext := range extensions {
		path := filepath.Join(r.dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, path, nil
	}
	return nil, "", fs.ErrNotExist
}

// Save writes the snapshot as canonical JSON documents into the directory at path.
func (r *FileRepository) Save(_ context.Context, snapshot *entity.Snapshot, path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	docs := []struct {
		name string
		doc  interface{}
	}{
		{SubstrateFile, toRawRegistry(snapshot.Substrate)},
		{EVMFile, toRawRegistry(snapshot.EVM)},
		{NetworksFile, toRawNetworks(snapshot.Networks)},
	}
	for _, d := range docs {
		data, err := json.MarshalIndent(d.doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", d.name, err)
		}
		file := filepath.Join(path, d.name+".json")
		if err := os.WriteFile(file, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", file, err)
		}
	}

	r.logger.Info("Saved registry snapshot", zap.String("dir", path))
	return nil
}
