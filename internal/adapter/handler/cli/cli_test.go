package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archive-registry/internal/domain"
	"archive-registry/internal/domain/entity"
)

type fakeRegistry struct {
	providers []entity.Provider
	rows      []entity.ArchiveListing
	info      entity.NetworkInfo

	gotCriteria entity.FilterCriteria
	gotFamily   entity.Family
	gotRelease  string
}

func (f *fakeRegistry) LookupProviders(_ context.Context, network string, criteria entity.FilterCriteria) ([]entity.Provider, error) {
	f.gotCriteria = criteria
	if network == "unknown" {
		return nil, domain.NotFound(network, domain.HintExtendRegistry)
	}
	return f.providers, nil
}

func (f *fakeRegistry) ResolveEndpoint(_ context.Context, network string, criteria entity.FilterCriteria) (string, error) {
	f.gotCriteria = criteria
	if network == "unknown" {
		return "", domain.NotFound(network, domain.HintExtendRegistry)
	}
	return f.providers[0].DataSourceURL.String(), nil
}

func (f *fakeRegistry) GetNetworkInfo(_ context.Context, network, _ string) (entity.NetworkInfo, error) {
	if network != f.info.Name {
		return entity.NetworkInfo{}, domain.NotFound(network, domain.HintExtendRegistry)
	}
	return f.info, nil
}

func (f *fakeRegistry) ListArchives(_ context.Context, family entity.Family, release string) ([]entity.ArchiveListing, error) {
	f.gotFamily, f.gotRelease = family, release
	var rows []entity.ArchiveListing
	for _, r := range f.rows {
		if family != "" && r.Family != family {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (f *fakeRegistry) Reload(context.Context) (*entity.Snapshot, error) {
	return &entity.Snapshot{}, nil
}

type fakeMaintenance struct {
	snapshot *entity.Snapshot
	versions []entity.VersionReport
	genesis  []entity.GenesisReport
}

func (f *fakeMaintenance) RefreshVersions(context.Context) (*entity.Snapshot, []entity.VersionReport, error) {
	return f.snapshot, f.versions, nil
}

func (f *fakeMaintenance) VerifyGenesisHashes(context.Context) ([]entity.GenesisReport, error) {
	return f.genesis, nil
}

type fakeWriter struct {
	snapshot *entity.Snapshot
	path     string
}

func (f *fakeWriter) Save(_ context.Context, snapshot *entity.Snapshot, path string) error {
	f.snapshot, f.path = snapshot, path
	return nil
}

func newFakeServices() *Services {
	return &Services{
		Registry: &fakeRegistry{
			providers: []entity.Provider{
				{Provider: "subsquid", Release: "ArrowSquid", DataSourceURL: "https://v2.archive/kusama"},
				{Provider: "subsquid", Release: "FireSquid", DataSourceURL: "https://kusama.archive/graphql", ExplorerURL: "https://kusama.explorer/graphql"},
			},
			rows: []entity.ArchiveListing{
				{Family: entity.FamilySubstrate, Network: "kusama", Provider: "subsquid", Release: "ArrowSquid", Endpoint: "https://v2.archive/kusama"},
				{Family: entity.FamilyEVM, Network: "binance", Provider: "subsquid", Release: "ArrowSquid", Endpoint: "https://v2.archive/binance"},
			},
			info: entity.NetworkInfo{Name: "statemint", DisplayName: "Statemint", Tokens: []string{"DOT"}, ParachainID: "1000"},
		},
		Maintenance: &fakeMaintenance{},
		Writer:      &fakeWriter{},
	}
}

func run(t *testing.T, services *Services, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test", func(context.Context, string) (*Services, func(), error) {
		return services, func() {}, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLookup_PrintsEndpoint(t *testing.T) {
	services := newFakeServices()
	out, err := run(t, services, "lookup", "kusama", "--type", "substrate", "-r", "5", "--worker", "w1")
	require.NoError(t, err)
	assert.Equal(t, "https://v2.archive/kusama\n", out)

	got := services.Registry.(*fakeRegistry).gotCriteria
	assert.Equal(t, entity.FilterCriteria{Family: entity.FamilySubstrate, Release: "5", Worker: "w1"}, got)
}

func TestLookup_AllProviders(t *testing.T) {
	out, err := run(t, newFakeServices(), "lookup", "kusama", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "PROVIDER")
	assert.Contains(t, out, "https://kusama.archive/graphql")
	assert.Contains(t, out, "https://kusama.explorer/graphql")

	out, err = run(t, newFakeServices(), "lookup", "kusama", "--all", "--json")
	require.NoError(t, err)
	var providers []entity.Provider
	require.NoError(t, json.Unmarshal([]byte(out), &providers))
	assert.Len(t, providers, 2)
}

func TestLookup_Errors(t *testing.T) {
	_, err := run(t, newFakeServices(), "lookup", "unknown")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, newFakeServices(), "lookup", "kusama", "--type", "cosmos")
	require.ErrorContains(t, err, "unknown registry type")

	_, err = run(t, newFakeServices(), "lookup")
	require.Error(t, err)
}

func TestList_EVMFirst(t *testing.T) {
	out, err := run(t, newFakeServices(), "list", "--release", "ArrowSquid")
	require.NoError(t, err)

	evm := bytes.Index([]byte(out), []byte("EVM archives:"))
	substrate := bytes.Index([]byte(out), []byte("Substrate archives:"))
	require.NotEqual(t, -1, evm)
	require.NotEqual(t, -1, substrate)
	assert.Less(t, evm, substrate)
	assert.Contains(t, out, "binance")
	assert.Contains(t, out, "kusama")
}

func TestList_TypeAndJSON(t *testing.T) {
	services := newFakeServices()
	out, err := run(t, services, "list", "-t", "evm", "--json")
	require.NoError(t, err)

	var rows []entity.ArchiveListing
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "binance", rows[0].Network)
	assert.Equal(t, entity.FamilyEVM, services.Registry.(*fakeRegistry).gotFamily)
}

func TestInfo(t *testing.T) {
	out, err := run(t, newFakeServices(), "info", "statemint")
	require.NoError(t, err)
	assert.Contains(t, out, "Statemint")
	assert.Contains(t, out, "1000")

	_, err = run(t, newFakeServices(), "info", "kusama")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateVersions_WritesSnapshot(t *testing.T) {
	services := newFakeServices()
	snapshot := &entity.Snapshot{}
	services.Maintenance = &fakeMaintenance{
		snapshot: snapshot,
		versions: []entity.VersionReport{
			{Family: entity.FamilySubstrate, Network: "kusama", Provider: "subsquid", Previous: "5.0.0", Current: "5.1.0", Change: entity.VersionUpgraded, Status: entity.ProbeOK},
			{Family: entity.FamilySubstrate, Network: "polkadot", Provider: "subsquid", Previous: "5.0.0", Status: entity.ProbeFailed, Error: "timeout"},
		},
	}

	out, err := run(t, services, "update-versions", "--out", "registryNew")
	require.NoError(t, err)
	assert.Contains(t, out, "upgraded")
	assert.Contains(t, out, "failed: timeout")

	writer := services.Writer.(*fakeWriter)
	assert.Same(t, snapshot, writer.snapshot)
	assert.Equal(t, "registryNew", writer.path)
}

func TestVerifyGenesis_FailsOnMismatch(t *testing.T) {
	services := newFakeServices()
	services.Maintenance = &fakeMaintenance{genesis: []entity.GenesisReport{
		{Network: "kusama", Status: entity.ProbeOK},
		{Network: "polkadot", Expected: "0x91b1", Actual: "0xdead", Status: entity.ProbeMismatch},
	}}

	out, err := run(t, services, "verify-genesis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polkadot")
	assert.Contains(t, out, "expected 0x91b1 but got 0xdead")
}

func TestLoaderErrorStopsCommand(t *testing.T) {
	cmd := NewRootCommand("test", func(context.Context, string) (*Services, func(), error) {
		return nil, nil, errors.New("bad config")
	})
	cmd.SetArgs([]string{"list"})
	cmd.SetOut(&bytes.Buffer{})
	require.ErrorContains(t, cmd.ExecuteContext(context.Background()), "bad config")
}

func TestExecute_RunsCleanup(t *testing.T) {
	cleaned := false
	load := func(context.Context, string) (*Services, func(), error) {
		return newFakeServices(), func() { cleaned = true }, nil
	}
	root, a := newRootCommand("test", load)
	root.SetArgs([]string{"lookup", "unknown"})
	root.SetOut(&bytes.Buffer{})
	require.Error(t, root.ExecuteContext(context.Background()))
	a.close()
	assert.True(t, cleaned)
}

func TestHelp_DocumentsLookupCaveats(t *testing.T) {
	out, err := run(t, newFakeServices(), "lookup", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "needs --type")

	out, err = run(t, newFakeServices(), "update-versions", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "replaces the recorded release")
}
