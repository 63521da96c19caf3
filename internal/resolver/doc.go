// Package resolver turns public ledger provider responses into txdig models.
//
// # Components
//
//   - AddressResolver: queries every configured address provider for one
//     address in parallel and merges the answers into a model.AddressSnapshot
//   - TransactionResolver: fetches one transaction from the network
//     qualified provider, or a batch of transaction details in parallel
//
// Both resolvers delegate the actual HTTP work to a Fetcher, normally a
// *fetch.Client, so retry and identity rotation are applied uniformly.
//
// # Concurrency
//
// Every parallel call creates its own bounded errgroup pool (width 4 for
// address providers, 8 for batch transaction details) that lives only for
// the duration of that call. Results are merged by provider name or
// transaction id, so the output does not depend on completion order.
//
// # Failure handling
//
// Resolvers never fail a whole query because one provider failed. Address
// snapshots always contain one entry per provider, with an "Error: ..."
// placeholder for providers that produced nothing usable.
package resolver
