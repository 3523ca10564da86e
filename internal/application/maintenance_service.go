package application

import (
	"context"
	"strings"
	"sync"

	"archive-registry/internal/application/port"
	"archive-registry/internal/config"
	"archive-registry/internal/domain/entity"
	domainService "archive-registry/internal/domain/service"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// Compile-time check
var _ port.MaintenanceService = (*maintenanceService)(nil)

// providerRef locates one provider inside a snapshot.
type providerRef struct {
	family      entity.Family
	entryIdx    int
	providerIdx int
	network     string
	genesis     string
	provider    entity.Provider
}

// maintenanceService implements port.MaintenanceService.
type maintenanceService struct {
	store   *Store
	prober  domainService.Prober
	logger  *zap.Logger
	workers int
}

// NewMaintenanceService creates a maintenance service probing with up to cfg.Probe.MaxWorkers concurrent requests.
func NewMaintenanceService(store *Store, prober domainService.Prober, logger *zap.Logger, cfg config.Config) port.MaintenanceService {
	return &maintenanceService{
		store:   store,
		prober:  prober,
		logger:  logger.Named("MaintenanceService"),
		workers: cfg.Probe.GetMaxWorkers(),
	}
}

// RefreshVersions probes the data source of every provider for its version.
// The new snapshot carries the probed releases; failed probes keep the recorded one.
func (s *maintenanceService) RefreshVersions(ctx context.Context) (*entity.Snapshot, []entity.VersionReport, error) {
	current, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	refs := collectProviders(current)
	s.logger.Info("Refreshing provider versions", zap.Int("providers", len(refs)))

	reports := probeAll(ctx, refs, s.workers, func(ctx context.Context, ref providerRef) entity.VersionReport {
		report := entity.VersionReport{
			Family:   ref.family,
			Network:  ref.network,
			Provider: ref.provider.Provider,
			URL:      ref.provider.DataSourceURL,
			Previous: ref.provider.Release,
		}

		version, err := s.prober.Version(ctx, ref.provider.DataSourceURL)
		if err != nil {
			s.logger.Warn("Version probe failed",
				zap.String("network", ref.network), zap.String("url", report.URL.String()), zap.Error(err),
			)
			report.Status = entity.ProbeFailed
			report.Error = err.Error()
			return report
		}

		report.Current = version
		report.Change = classifyVersionChange(report.Previous, version)
		report.Status = entity.ProbeOK
		s.logger.Debug("Version probed",
			zap.String("network", ref.network), zap.String("version", version), zap.String("change", string(report.Change)),
		)
		return report
	})

	next := current.Clone()
	for i, ref := range refs {
		if reports[i].Status != entity.ProbeOK {
			continue
		}
		reg := registryOf(next, ref.family)
		reg.Archives[ref.entryIdx].Providers[ref.providerIdx].Release = reports[i].Current
	}

	s.store.Replace(ctx, next)
	return next, reports, nil
}

// VerifyGenesisHashes probes every provider of entries with a recorded genesis hash.
// Providers of entries without one are reported as skipped.
func (s *maintenanceService) VerifyGenesisHashes(ctx context.Context) ([]entity.GenesisReport, error) {
	current, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	refs := collectProviders(current)
	s.logger.Info("Verifying genesis hashes", zap.Int("providers", len(refs)))

	return probeAll(ctx, refs, s.workers, func(ctx context.Context, ref providerRef) entity.GenesisReport {
		url := ref.provider.ExplorerURL
		if url == "" {
			url = ref.provider.DataSourceURL
		}
		report := entity.GenesisReport{
			Family:   ref.family,
			Network:  ref.network,
			Provider: ref.provider.Provider,
			URL:      url,
			Expected: ref.genesis,
		}

		if ref.genesis == "" {
			report.Status = entity.ProbeSkipped
			return report
		}

		hash, err := s.prober.GenesisHash(ctx, url)
		if err != nil {
			s.logger.Warn("Genesis probe failed",
				zap.String("network", ref.network), zap.String("url", url.String()), zap.Error(err),
			)
			report.Status = entity.ProbeFailed
			report.Error = err.Error()
			return report
		}

		report.Actual = hash
		if strings.EqualFold(hash, ref.genesis) {
			report.Status = entity.ProbeOK
		} else {
			report.Status = entity.ProbeMismatch
			s.logger.Warn("Genesis hash mismatch",
				zap.String("network", ref.network), zap.String("expected", ref.genesis), zap.String("actual", hash),
			)
		}
		return report
	}), nil
}

// collectProviders flattens both archive registries, Substrate first.
func collectProviders(snapshot *entity.Snapshot) []providerRef {
	var refs []providerRef
	for _, reg := range []entity.Registry{snapshot.Substrate, snapshot.EVM} {
		for i, a := range reg.Archives {
			for j, p := range a.Providers {
				refs = append(refs, providerRef{
					family:      reg.Family,
					entryIdx:    i,
					providerIdx: j,
					network:     a.Network,
					genesis:     a.GenesisHash,
					provider:    p,
				})
			}
		}
	}
	return refs
}

func registryOf(snapshot *entity.Snapshot, family entity.Family) *entity.Registry {
	if family == entity.FamilyEVM {
		return &snapshot.EVM
	}
	return &snapshot.Substrate
}

// probeAll runs probe for every ref on a bounded worker pool. Results keep
// the order of refs; one probe failing never stops the others.
func probeAll[T any](ctx context.Context, refs []providerRef, workers int, probe func(context.Context, providerRef) T) []T {
	results := make([]T, len(refs))
	if len(refs) == 0 {
		return results
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(refs) {
		workers = len(refs)
	}

	jobChan := make(chan int, len(refs))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = probe(ctx, refs[idx])
			}
		}()
	}

	for i := range refs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	return results
}

// classifyVersionChange compares versions semantically when both parse as semver.
func classifyVersionChange(previous, current string) entity.VersionChange {
	if previous == current {
		return entity.VersionUnchanged
	}

	prev, errPrev := semver.NewVersion(strings.TrimPrefix(previous, "v"))
	cur, errCur := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if errPrev != nil || errCur != nil {
		return entity.VersionChanged
	}

	switch cur.Compare(prev) {
	case 1:
		return entity.VersionUpgraded
	case -1:
		return entity.VersionDowngraded
	default:
		return entity.VersionUnchanged
	}
}
