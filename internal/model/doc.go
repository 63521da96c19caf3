// Package model defines the core data structures used throughout txdig.
//
// This package contains the following main types:
//   - Network: A logical blockchain network (bitcoin, testnet, signet)
//   - Endpoint: One redundant data provider for a query type
//   - Transaction: A parsed transaction record with inputs and outputs
//   - AddressSnapshot / AddressReport: Address mode results keyed by provider
//   - TrackerSnapshot: The read-only view of a Graph Tracker
//   - DigResult: Everything a transaction-digging run produced
//
// Models live in their own package so that the resolver, crawler, tracker
// and report packages can share them without import cycles. All of them
// serialize to JSON for report output and the saved dumps.
package model
