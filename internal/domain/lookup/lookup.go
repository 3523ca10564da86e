// Package lookup narrows registry entries and their providers down to a
// deterministic result set. All functions are pure and operate on the values
// passed in, so concurrent calls against one snapshot are safe.
package lookup

import (
	"strings"

	"archive-registry/internal/domain"
	"archive-registry/internal/domain/entity"
)

// LookupProviders returns the providers of the single entry named network that
// satisfy every constraint in criteria, in registry order.
//
// Ambiguity at the network level is reported before any provider filtering:
// two entries sharing a name fail with domain.ErrAmbiguous even when a
// provider filter would have picked a unique answer.
func LookupProviders(registry entity.Registry, network string, criteria entity.FilterCriteria) ([]entity.Provider, error) {
	entries := matchEntries(registry.Archives, network, criteria.Genesis)

	if len(entries) == 0 {
		return nil, domain.NotFound(network, domain.HintExtendRegistry)
	}
	if len(entries) > 1 {
		return nil, domain.Ambiguous(network, domain.HintProvideGenesis)
	}

	var matched []entity.Provider
	for _, p := range entries[0].Providers {
		if matchProvider(p, criteria) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		return nil, domain.NotFound(network, domain.HintNoMatchProvider)
	}
	return matched, nil
}

// matchEntries selects entries by case-insensitive name and, when given, genesis hash.
func matchEntries(archives []entity.NetworkEntry, network, genesis string) []*entity.NetworkEntry {
	var out []*entity.NetworkEntry
	for i := range archives {
		a := &archives[i]
		if !strings.EqualFold(a.Network, network) {
			continue
		}
		if genesis != "" && (a.GenesisHash == "" || !strings.EqualFold(a.GenesisHash, genesis)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// matchProvider evaluates every present provider-level constraint in one pass.
// Deployment identifiers compare exactly; release also accepts a bare major number.
func matchProvider(p entity.Provider, c entity.FilterCriteria) bool {
	exact := [...]struct{ want, got string }{
		{c.Image, p.Image},
		{c.Gateway, p.Gateway},
		{c.Ingest, p.Ingest},
		{c.Ingester, p.Ingester},
		{c.Worker, p.Worker},
	}
	for _, f := range exact {
		if f.want != "" && f.want != f.got {
			return false
		}
	}
	return c.Release == "" || MatchRelease(p.Release, c.Release)
}

// MatchRelease reports whether a provider release satisfies a release filter.
//
// A filter with a dot must equal the release exactly. A filter without a dot
// matches the release verbatim, or its major component (text before the first
// dot) when the release is dotted: "5" matches "5.0.0-alpha23" and "5", while
// "Fire" does not match "FireSquid".
func MatchRelease(release, filter string) bool {
	if release == filter {
		return true
	}
	if strings.Contains(filter, ".") {
		return false
	}
	major, _, dotted := strings.Cut(release, ".")
	return dotted && major == filter
}
