package entity

import "time"

// Provider is one operator serving a network's archive at an endpoint.
type Provider struct {
	Provider      string      `json:"provider"`
	Release       string      `json:"release"`
	DataSourceURL EndpointURL `json:"dataSourceUrl"`
	ExplorerURL   EndpointURL `json:"explorerUrl,omitempty"`
	Image         string      `json:"image,omitempty"`
	Gateway       string      `json:"gateway,omitempty"`
	Ingest        string      `json:"ingest,omitempty"`
	Ingester      string      `json:"ingester,omitempty"`
	Worker        string      `json:"worker,omitempty"`
}

// NetworkEntry identifies one blockchain and its known providers.
// Network is matched case-insensitively; GenesisHash is optional.
type NetworkEntry struct {
	Network     string
	GenesisHash string
	Providers   []Provider
}

// Registry is the ordered archive list of a single family.
type Registry struct {
	Family   Family
	Archives []NetworkEntry
}

// Has reports whether an entry with exactly this network name exists.
func (r Registry) Has(network string) bool {
	for i := range r.Archives {
		if r.Archives[i].Network == network {
			return true
		}
	}
	return false
}

// Snapshot is the immutable unit handed out by the registry store.
// Refreshing produces a new Snapshot; nothing mutates one in place.
type Snapshot struct {
	Substrate Registry
	EVM       Registry
	Networks  NetworkRegistry
	LoadedAt  time.Time
}

// Registry returns the archive registry of the given family.
func (s *Snapshot) Registry(family Family) (Registry, bool) {
	switch family {
	case FamilySubstrate:
		return s.Substrate, true
	case FamilyEVM:
		return s.EVM, true
	default:
		return Registry{}, false
	}
}

// Clone returns a deep copy so callers can derive a new snapshot.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Substrate: s.Substrate.clone(),
		EVM:       s.EVM.clone(),
		Networks:  s.Networks.clone(),
		LoadedAt:  s.LoadedAt,
	}
}

func (r Registry) clone() Registry {
	out := Registry{Family: r.Family}
	if r.Archives == nil {
		return out
	}
	out.Archives = make([]NetworkEntry, len(r.Archives))
	for i, a := range r.Archives {
		out.Archives[i] = NetworkEntry{
			Network:     a.Network,
			GenesisHash: a.GenesisHash,
			Providers:   append([]Provider(nil), a.Providers...),
		}
	}
	return out
}

// ArchiveListing is one provider row of a registry listing.
type ArchiveListing struct {
	Family   Family      `json:"family"`
	Network  string      `json:"network"`
	Provider string      `json:"provider"`
	Release  string      `json:"release"`
	Endpoint EndpointURL `json:"endpoint"`
}
