package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"archive-registry/internal/adapter/storage/memory"
	"archive-registry/internal/config"
	"archive-registry/internal/domain/entity"
)

type fakeSource struct {
	mu       sync.Mutex
	snapshot *entity.Snapshot
	err      error
	delay    time.Duration
	loads    atomic.Int32
}

func (f *fakeSource) Load(context.Context) (*entity.Snapshot, error) {
	f.loads.Add(1)
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot.Clone(), nil
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeProber struct {
	versions map[entity.EndpointURL]string
	genesis  map[entity.EndpointURL]string
	calls    atomic.Int32
}

var errProbe = errors.New("probe failed")

func (f *fakeProber) Version(_ context.Context, url entity.EndpointURL) (string, error) {
	f.calls.Add(1)
	if v, ok := f.versions[url]; ok {
		return v, nil
	}
	return "", errProbe
}

func (f *fakeProber) GenesisHash(_ context.Context, url entity.EndpointURL) (string, error) {
	f.calls.Add(1)
	if h, ok := f.genesis[url]; ok {
		return h, nil
	}
	return "", errProbe
}

func testConfig() config.Config {
	return config.Config{
		Probe: config.ProbeConfig{Timeout: time.Second, MaxWorkers: 3},
		Cache: config.CacheConfig{DefaultExpiration: time.Minute, CleanupInterval: time.Minute},
		Lookup: config.LookupConfig{DefaultRelease: config.DefaultReleaseConfig{
			Substrate: "ArrowSquid",
			EVM:       "ArrowSquid",
		}},
	}
}

func testSnapshot() *entity.Snapshot {
	return &entity.Snapshot{
		Substrate: entity.Registry{
			Family: entity.FamilySubstrate,
			Archives: []entity.NetworkEntry{
				{
					Network:     "polkadot",
					GenesisHash: "0xfe58",
					Providers: []entity.Provider{
						{Provider: "subsquid", Release: "FireSquid", DataSourceURL: "https://polkadot.archive/graphql", ExplorerURL: "https://polkadot.explorer/graphql"},
						{Provider: "subsquid", Release: "ArrowSquid", DataSourceURL: "https://v2.archive/polkadot"},
					},
				},
				{
					Network: "moonbase",
					Providers: []entity.Provider{
						{Provider: "subsquid", Release: "ArrowSquid", DataSourceURL: "https://v2.archive/moonbase-substrate"},
					},
				},
			},
		},
		EVM: entity.Registry{
			Family: entity.FamilyEVM,
			Archives: []entity.NetworkEntry{
				{
					Network: "moonbase",
					Providers: []entity.Provider{
						{Provider: "subsquid", Release: "ArrowSquid", DataSourceURL: "https://v2.archive/moonbase-testnet"},
					},
				},
			},
		},
		Networks: entity.NetworkRegistry{Networks: []entity.NetworkInfo{
			{Name: "polkadot", DisplayName: "Polkadot", Tokens: []string{"DOT"}, GenesisHash: "0xfe58"},
		}},
	}
}

func newTestStore(t *testing.T, source *fakeSource) *Store {
	t.Helper()
	cfg := testConfig()
	cache := memory.NewCacheRepository(cfg.Cache, zap.NewNop())
	return NewStore(source, cache, time.Minute, zap.NewNop())
}
