// Package crawler walks the input graph of a transaction.
//
// # Architecture
//
// The package is built around the Digger type. Starting at a seed
// transaction (level 0), it fetches each transaction, registers every
// input address and input transaction id in a tracker.Tracker, and then
// descends into each distinct input transaction at the next level.
//
// The walk is sequential and depth first. It runs on an explicit work
// stack, so the maximum level does not translate into goroutine stack
// depth. The order of fetches, registrations and log lines is exactly
// that of a recursive pre-order walk.
//
// # Node states
//
// Every node popped from the stack ends in one of:
//
//   - expanded: fetched, inputs registered, children scheduled
//   - depth_limited: at or beyond the maximum level, not fetched
//   - fetch_failed: the transaction could not be retrieved or parsed
//   - malformed: the payload carried no input list
//
// Only the branch below a failed node is abandoned; the rest of the walk
// continues. Visits and per-state counts are returned in model.DigResult.
//
// # Usage
//
//	digger := crawler.NewDigger(txResolver, crawler.WithMaxDepth(3))
//	result, err := digger.Dig(ctx, tracker.New(), txid, model.NetworkBitcoin)
//
// # Termination
//
// The level grows by one on every descent and the depth check is the
// first action per node. The walk is bounded by the maximum level times
// the fan-in met on the way; no transaction at the limit is fetched.
package crawler
