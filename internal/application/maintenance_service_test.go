package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"archive-registry/internal/domain"
	"archive-registry/internal/domain/entity"
)

func TestMaintenanceService_RefreshVersions(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot()}
	store := newTestStore(t, source)
	prober := &fakeProber{versions: map[entity.EndpointURL]string{
		"https://polkadot.archive/graphql":     "FireSquid",
		"https://v2.archive/polkadot":          "ArrowSquid-2",
		"https://v2.archive/moonbase-testnet":  "ArrowSquid",
	}}
	svc := NewMaintenanceService(store, prober, zap.NewNop(), testConfig())
	ctx := context.Background()

	before, err := store.Snapshot(ctx)
	require.NoError(t, err)

	next, reports, err := svc.RefreshVersions(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Equal(t, int32(4), prober.calls.Load())

	assert.Equal(t, entity.ProbeOK, reports[0].Status)
	assert.Equal(t, entity.VersionUnchanged, reports[0].Change)
	assert.Equal(t, entity.VersionChanged, reports[1].Change)
	assert.Equal(t, entity.ProbeFailed, reports[2].Status, "moonbase-substrate has no version")
	assert.NotEmpty(t, reports[2].Error)
	assert.Equal(t, entity.ProbeOK, reports[3].Status)

	assert.Equal(t, "ArrowSquid-2", next.Substrate.Archives[0].Providers[1].Release)
	assert.Equal(t, "ArrowSquid", next.Substrate.Archives[1].Providers[0].Release, "failed probe keeps release")
	assert.Equal(t, "ArrowSquid", before.Substrate.Archives[0].Providers[1].Release, "old snapshot untouched")

	current, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, next, current)
}

func TestMaintenanceService_VerifyGenesisHashes(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot()}
	prober := &fakeProber{genesis: map[entity.EndpointURL]string{
		"https://polkadot.explorer/graphql": "0xFE58",
		"https://v2.archive/polkadot":       "0xdead",
	}}
	svc := NewMaintenanceService(newTestStore(t, source), prober, zap.NewNop(), testConfig())

	reports, err := svc.VerifyGenesisHashes(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 4)

	assert.Equal(t, entity.ProbeOK, reports[0].Status)
	assert.Equal(t, entity.EndpointURL("https://polkadot.explorer/graphql"), reports[0].URL, "explorer preferred")
	assert.Equal(t, entity.ProbeMismatch, reports[1].Status)
	assert.Equal(t, "0xdead", reports[1].Actual)
	assert.Equal(t, entity.ProbeSkipped, reports[2].Status)
	assert.Equal(t, entity.ProbeSkipped, reports[3].Status)
	assert.Equal(t, int32(2), prober.calls.Load())
}

func TestClassifyVersionChange(t *testing.T) {
	tests := []struct {
		prev, cur string
		want      entity.VersionChange
	}{
		{"5.0.0", "5.0.0", entity.VersionUnchanged},
		{"5.0.0-alpha22", "5.0.0-alpha23", entity.VersionUpgraded},
		{"v5.1.0", "5.0.9", entity.VersionDowngraded},
		{"FireSquid", "ArrowSquid", entity.VersionChanged},
		{"", "5.0.0", entity.VersionChanged},
	}
	for _, tt := range tests {
		t.Run(tt.prev+"->"+tt.cur, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyVersionChange(tt.prev, tt.cur))
		})
	}
}

func TestProbeAll_PreservesOrder(t *testing.T) {
	refs := make([]providerRef, 20)
	for i := range refs {
		refs[i].entryIdx = i
	}
	got := probeAll(context.Background(), refs, 4, func(_ context.Context, ref providerRef) int { return ref.entryIdx * 2 })
	for i, v := range got {
		assert.Equal(t, i*2, v)
	}
}

func TestMaintenanceService_RefreshedReleasesReplaceCodenames(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot()}
	store := newTestStore(t, source)
	prober := &fakeProber{versions: map[entity.EndpointURL]string{
		"https://v2.archive/polkadot": "5.0.0",
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registry := NewRegistryService(ctx, store, zap.NewNop(), testConfig())

	url, err := registry.ResolveEndpoint(ctx, "polkadot", entity.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, "https://v2.archive/polkadot", url)

	_, _, err = NewMaintenanceService(store, prober, zap.NewNop(), testConfig()).RefreshVersions(ctx)
	require.NoError(t, err)

	_, err = registry.ResolveEndpoint(ctx, "polkadot", entity.FilterCriteria{})
	require.ErrorIs(t, err, domain.ErrNotFound, "default release no longer matches the probed version")

	url, err = registry.ResolveEndpoint(ctx, "polkadot", entity.FilterCriteria{Release: "5"})
	require.NoError(t, err)
	assert.Equal(t, "https://v2.archive/polkadot", url)
}
