// Package fetch performs idempotent HTTP reads against unreliable
// third-party data providers.
//
// A Client retries a GET up to a fixed attempt budget. Every attempt picks
// one of several transport identities, which share one base transport and
// differ only in their User-Agent header, so that providers applying
// per-client rate limits see varied traffic. Only HTTP 200 counts as
// success; any other status or transport error is reported and retried
// after a fixed backoff.
//
// The retry behavior lives in RetryPolicy, separate from the Client, so it
// can be tested and configured on its own.
//
// # Usage
//
//	client := fetch.NewClient(
//	    fetch.WithTimeout(5*time.Second),
//	    fetch.WithPolicy(fetch.DefaultRetryPolicy()),
//	)
//	data, err := client.Fetch(ctx, "https://mempool.space/api/tx/...")
//	if errors.Is(err, fetch.ErrNoData) {
//	    // every attempt failed
//	}
package fetch
