package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no network entry or provider matches the name and criteria.
	ErrNotFound = errors.New("archive not found")

	// ErrAmbiguous means the name matches more than one network entry or registry family.
	ErrAmbiguous = errors.New("ambiguous network")
)

// Hints attached to lookup failures.
const (
	HintExtendRegistry  = "Please consider submitting a PR to subsquid/archive-registry github repo to extend the registry"
	HintProvideGenesis  = "Provide the genesis hash to disambiguate"
	HintProvideType     = "Provide the registry type (Substrate or EVM) to disambiguate"
	HintNoMatchProvider = "No provider matches the requested filters. " + HintExtendRegistry
)

// LookupError carries the network name and a remediation hint for a failed lookup.
// It unwraps to ErrNotFound or ErrAmbiguous.
type LookupError struct {
	Kind    error
	Network string
	Hint    string
}

func (e *LookupError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Network)
	}
	return fmt.Sprintf("%v: %s. %s", e.Kind, e.Network, e.Hint)
}

func (e *LookupError) Unwrap() error {
	return e.Kind
}

// NotFound builds a LookupError of kind ErrNotFound.
func NotFound(network, hint string) error {
	return &LookupError{Kind: ErrNotFound, Network: network, Hint: hint}
}

// Ambiguous builds a LookupError of kind ErrAmbiguous.
func Ambiguous(network, hint string) error {
	return &LookupError{Kind: ErrAmbiguous, Network: network, Hint: hint}
}
