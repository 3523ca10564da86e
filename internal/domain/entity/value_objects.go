package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// Family defines the registry family a network belongs to.
type Family string

// Known registry families.
const (
	FamilySubstrate Family = "Substrate"
	FamilyEVM       Family = "EVM"
)

// ParseFamily converts user input (any casing) to a Family.
// An empty string yields an empty Family, meaning "not specified".
func ParseFamily(raw string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "substrate":
		return FamilySubstrate, nil
	case "evm":
		return FamilyEVM, nil
	default:
		return "", fmt.Errorf("unknown registry type '%s', expected Substrate or EVM", raw)
	}
}

// EndpointURL represents a typed URL of an archive or explorer endpoint.
type EndpointURL string

// NewEndpointURL creates a new EndpointURL instance.
func NewEndpointURL(rawURL string) (EndpointURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("endpoint url cannot be empty")
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint url format '%s': %w", rawURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss":
	default:
		return "", fmt.Errorf("endpoint url '%s' has unsupported scheme: '%s'", rawURL, u.Scheme)
	}

	return EndpointURL(rawURL), nil
}

// String returns the string representation of the EndpointURL.
func (e EndpointURL) String() string {
	return string(e)
}

// IsWebsocket reports whether the endpoint uses the ws or wss scheme.
func (e EndpointURL) IsWebsocket() bool {
	s := strings.ToLower(string(e))
	return strings.HasPrefix(s, "ws://") || strings.HasPrefix(s, "wss://")
}
