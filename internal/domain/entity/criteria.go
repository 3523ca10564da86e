package entity

// FilterCriteria is a sparse set of lookup constraints.
// An empty field places no constraint on that attribute.
type FilterCriteria struct {
	Family   Family
	Genesis  string
	Release  string
	Image    string
	Gateway  string
	Ingest   string
	Ingester string
	Worker   string
}
