package archive_dto

// ProviderRaw is a provider as found in registry documents. Older documents
// use url, version and explorer-url; newer ones use dataSourceUrl, release
// and explorerUrl. Both spellings are decoded and reconciled by the mapper.
type ProviderRaw struct {
	Provider          string `json:"provider" yaml:"provider"`
	Release           string `json:"release,omitempty" yaml:"release,omitempty"`
	Version           string `json:"version,omitempty" yaml:"version,omitempty"`
	DataSourceURL     string `json:"dataSourceUrl,omitempty" yaml:"dataSourceUrl,omitempty"`
	URL               string `json:"url,omitempty" yaml:"url,omitempty"`
	ExplorerURL       string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	LegacyExplorerURL string `json:"explorer-url,omitempty" yaml:"explorer-url,omitempty"`
	Image             string `json:"image,omitempty" yaml:"image,omitempty"`
	Gateway           string `json:"gateway,omitempty" yaml:"gateway,omitempty"`
	Ingest            string `json:"ingest,omitempty" yaml:"ingest,omitempty"`
	Ingester          string `json:"ingester,omitempty" yaml:"ingester,omitempty"`
	Worker            string `json:"worker,omitempty" yaml:"worker,omitempty"`
}

// ArchiveEntryRaw is one network entry from raw data.
type ArchiveEntryRaw struct {
	Network     string        `json:"network" yaml:"network"`
	GenesisHash string        `json:"genesisHash,omitempty" yaml:"genesisHash,omitempty"`
	Providers   []ProviderRaw `json:"providers" yaml:"providers"`
}

// ArchiveRegistryRaw is the top-level archives document.
type ArchiveRegistryRaw struct {
	Archives []ArchiveEntryRaw `json:"archives" yaml:"archives"`
}

// NetworkRaw is one network metadata record from raw data.
type NetworkRaw struct {
	Name        string   `json:"name" yaml:"name"`
	DisplayName string   `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Tokens      []string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Website     string   `json:"website,omitempty" yaml:"website,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	RelayChain  string   `json:"relayChain,omitempty" yaml:"relayChain,omitempty"`
	ParachainID string   `json:"parachainId,omitempty" yaml:"parachainId,omitempty"`
	GenesisHash string   `json:"genesisHash,omitempty" yaml:"genesisHash,omitempty"`
}

// NetworkRegistryRaw is the top-level networks document.
type NetworkRegistryRaw struct {
	Networks []NetworkRaw `json:"networks" yaml:"networks"`
}
