package lookup

import (
	"archive-registry/internal/domain"
	"archive-registry/internal/domain/entity"
)

// Defaults holds the release applied per family when a caller leaves it empty.
type Defaults struct {
	SubstrateRelease string
	EVMRelease       string
}

// Release returns the default release for family.
func (d Defaults) Release(family entity.Family) string {
	switch family {
	case entity.FamilySubstrate:
		return d.SubstrateRelease
	case entity.FamilyEVM:
		return d.EVMRelease
	default:
		return ""
	}
}

// DetectFamily classifies network by exact name membership in both registries.
// This probe is case-sensitive, unlike LookupProviders.
func DetectFamily(snapshot *entity.Snapshot, network string) (entity.Family, error) {
	inSubstrate := snapshot.Substrate.Has(network)
	inEVM := snapshot.EVM.Has(network)

	switch {
	case inSubstrate && inEVM:
		return "", domain.Ambiguous(network, domain.HintProvideType)
	case inSubstrate:
		return entity.FamilySubstrate, nil
	case inEVM:
		return entity.FamilyEVM, nil
	default:
		return "", domain.NotFound(network, domain.HintExtendRegistry)
	}
}

// ResolveEndpoint returns the data source URL of the first provider matching
// network and criteria. An empty family is detected from the snapshot and an
// empty release falls back to the family default.
func ResolveEndpoint(snapshot *entity.Snapshot, network string, criteria entity.FilterCriteria, defaults Defaults) (string, error) {
	if criteria.Family == "" {
		family, err := DetectFamily(snapshot, network)
		if err != nil {
			return "", err
		}
		criteria.Family = family
	}

	registry, ok := snapshot.Registry(criteria.Family)
	if !ok {
		return "", domain.NotFound(network, "Unknown registry type "+string(criteria.Family))
	}

	if criteria.Release == "" {
		criteria.Release = defaults.Release(criteria.Family)
	}

	providers, err := LookupProviders(registry, network, criteria)
	if err != nil {
		return "", err
	}
	return providers[0].DataSourceURL.String(), nil
}
