package entity

// NetworkInfo holds descriptive metadata for a network.
type NetworkInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	Tokens      []string `json:"tokens,omitempty"`
	Website     string   `json:"website,omitempty"`
	Description string   `json:"description,omitempty"`
	RelayChain  string   `json:"relayChain,omitempty"`
	ParachainID string   `json:"parachainId,omitempty"`
	GenesisHash string   `json:"genesisHash,omitempty"`
}

// NetworkRegistry is the ordered list of known network metadata.
type NetworkRegistry struct {
	Networks []NetworkInfo
}

func (r NetworkRegistry) clone() NetworkRegistry {
	if r.Networks == nil {
		return NetworkRegistry{}
	}
	out := make([]NetworkInfo, len(r.Networks))
	for i, n := range r.Networks {
		n.Tokens = append([]string(nil), n.Tokens...)
		out[i] = n
	}
	return NetworkRegistry{Networks: out}
}
