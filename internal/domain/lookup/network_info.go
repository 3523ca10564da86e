package lookup

import (
	"strings"

	"archive-registry/internal/domain"
	"archive-registry/internal/domain/entity"
)

// GetNetworkInfo finds exactly one metadata record named network, optionally
// narrowed by genesis hash. Names and hashes compare case-insensitively.
func GetNetworkInfo(registry entity.NetworkRegistry, network, genesis string) (entity.NetworkInfo, error) {
	var matched []entity.NetworkInfo
	for _, n := range registry.Networks {
		if !strings.EqualFold(n.Name, network) {
			continue
		}
		if genesis != "" && (n.GenesisHash == "" || !strings.EqualFold(n.GenesisHash, genesis)) {
			continue
		}
		matched = append(matched, n)
	}

	switch len(matched) {
	case 0:
		return entity.NetworkInfo{}, domain.NotFound(network, domain.HintExtendRegistry)
	case 1:
		return matched[0], nil
	default:
		return entity.NetworkInfo{}, domain.Ambiguous(network, domain.HintProvideGenesis)
	}
}
