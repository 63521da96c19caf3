package model

// EntityKind distinguishes the two string spaces the Graph Tracker keeps.
type EntityKind int

const (
	// EntityAddress is an input source address.
	EntityAddress EntityKind = iota
	// EntityTxid is an input source transaction id.
	EntityTxid
)

// String returns the kind name used in logs and reports.
func (k EntityKind) String() string {
	switch k {
	case EntityAddress:
		return "address"
	case EntityTxid:
		return "txid"
	default:
		return unknownStr
	}
}

// EntityCounts holds the occurrence counters, one mapping per entity kind.
type EntityCounts struct {
	Addresses map[string]int `json:"addresses"`
	Txids     map[string]int `json:"txids"`
}

// TrackerSnapshot is a read-only copy of a Graph Tracker. Its JSON form
// is what gets written to trxids.log.
type TrackerSnapshot struct {
	// Addresses are the distinct addresses in first-observation order.
	Addresses []string `json:"addresses"`

	// Txids are the distinct transaction ids in first-observation order.
	Txids []string `json:"txids"`

	// Counts holds how many times each entity was observed.
	Counts EntityCounts `json:"counts"`
}

// Count returns the occurrence count of entity within kind.
func (s TrackerSnapshot) Count(kind EntityKind, entity string) int {
	switch kind {
	case EntityAddress:
		return s.Counts.Addresses[entity]
	case EntityTxid:
		return s.Counts.Txids[entity]
	default:
		return 0
	}
}

// Repeated returns the entities of kind observed more than once, in
// first-observation order.
func (s TrackerSnapshot) Repeated(kind EntityKind) []string {
	list := s.Addresses
	if kind == EntityTxid {
		list = s.Txids
	}
	var repeated []string
	for _, entity := range list {
		if s.Count(kind, entity) > 1 {
			repeated = append(repeated, entity)
		}
	}
	return repeated
}
