package tracker

import (
	"maps"
	"slices"
	"sync"

	"github.com/nao1215/txdig/internal/model"
)

// Tracker is the registry of discovered addresses and transaction ids.
// The zero value is not usable; create one with New per run and pass it
// to the traversal by handle.
type Tracker struct {
	mu sync.Mutex

	// addresses and txids hold first observations in order.
	addresses []string
	txids     []string

	// addressCounts and txidCounts hold total observations per entity.
	addressCounts map[string]int
	txidCounts    map[string]int
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		addresses:     make([]string, 0),
		txids:         make([]string, 0),
		addressCounts: make(map[string]int),
		txidCounts:    make(map[string]int),
	}
}

// RegisterTxid records one observation of a transaction id.
// It returns true when this is the first observation.
func (t *Tracker) RegisterTxid(txid string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return register(&t.txids, t.txidCounts, txid)
}

// RegisterAddress records one observation of an address.
// It returns true when this is the first observation.
func (t *Tracker) RegisterAddress(address string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return register(&t.addresses, t.addressCounts, address)
}

// register increments the counter unconditionally and appends to the
// ordered set on first sight. Callers hold the lock.
func register(seen *[]string, counts map[string]int, entity string) bool {
	counts[entity]++
	if counts[entity] > 1 {
		return false
	}
	*seen = append(*seen, entity)
	return true
}

// Count returns how many times entity of the given kind was registered.
func (t *Tracker) Count(kind model.EntityKind, entity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch kind {
	case model.EntityAddress:
		return t.addressCounts[entity]
	case model.EntityTxid:
		return t.txidCounts[entity]
	default:
		return 0
	}
}

// IsRepeat reports whether entity was registered more than once.
func (t *Tracker) IsRepeat(kind model.EntityKind, entity string) bool {
	return t.Count(kind, entity) > 1
}

// Len returns the number of distinct addresses and transaction ids.
func (t *Tracker) Len() (addresses, txids int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.addresses), len(t.txids)
}

// Snapshot returns a copy of the tracker content for reporting and saving.
// Later registrations do not affect a returned snapshot.
func (t *Tracker) Snapshot() model.TrackerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return model.TrackerSnapshot{
		Addresses: slices.Clone(t.addresses),
		Txids:     slices.Clone(t.txids),
		Counts: model.EntityCounts{
			Addresses: maps.Clone(t.addressCounts),
			Txids:     maps.Clone(t.txidCounts),
		},
	}
}
