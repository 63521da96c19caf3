// Package tracker provides the Graph Tracker, the de-duplication and
// repeat detection memory of one transaction-digging run.
//
// A Tracker keeps two insertion-ordered sets (input addresses and input
// transaction ids) and an occurrence counter per entity. Entities are
// never removed and counters never decrease. Addresses and transaction
// ids are counted in separate mappings, so an address string that happens
// to equal a txid string does not share a counter with it.
//
// All methods are safe for concurrent use.
package tracker
