package entity

// ProbeStatus classifies the outcome of probing one provider.
type ProbeStatus string

// Probe outcomes.
const (
	ProbeOK       ProbeStatus = "ok"
	ProbeMismatch ProbeStatus = "mismatch"
	ProbeFailed   ProbeStatus = "failed"
	ProbeSkipped  ProbeStatus = "skipped"
)

// VersionChange describes how a probed version relates to the recorded one.
type VersionChange string

// Version change kinds.
const (
	VersionUnchanged  VersionChange = "unchanged"
	VersionUpgraded   VersionChange = "upgraded"
	VersionDowngraded VersionChange = "downgraded"
	VersionChanged    VersionChange = "changed"
)

// VersionReport holds the result of a version probe against one provider.
type VersionReport struct {
	Family   Family        `json:"family"`
	Network  string        `json:"network"`
	Provider string        `json:"provider"`
	URL      EndpointURL   `json:"url"`
	Previous string        `json:"previous"`
	Current  string        `json:"current,omitempty"`
	Change   VersionChange `json:"change,omitempty"`
	Status   ProbeStatus   `json:"status"`
	Error    string        `json:"error,omitempty"`
}

// GenesisReport holds the result of a genesis hash probe against one provider.
type GenesisReport struct {
	Family   Family      `json:"family"`
	Network  string      `json:"network"`
	Provider string      `json:"provider"`
	URL      EndpointURL `json:"url"`
	Expected string      `json:"expected"`
	Actual   string      `json:"actual,omitempty"`
	Status   ProbeStatus `json:"status"`
	Error    string      `json:"error,omitempty"`
}
