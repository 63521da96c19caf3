package fetch

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// Default retry settings.
const (
	// DefaultAttempts is the number of attempts per fetch.
	DefaultAttempts = 4

	// DefaultBackoff is the fixed wait between two attempts.
	DefaultBackoff = 500 * time.Millisecond
)

// Selector picks the index of the identity to use for the next attempt.
// n is the number of identities and is always positive.
type Selector func(n int) int

// RandomSelector picks an identity uniformly at random.
func RandomSelector() Selector {
	return func(n int) int {
		return rand.IntN(n) //nolint:gosec // identity rotation, not security sensitive
	}
}

// RoundRobinSelector cycles through identities in order. It is safe for
// concurrent use.
func RoundRobinSelector() Selector {
	var next atomic.Uint64
	return func(n int) int {
		return int((next.Add(1) - 1) % uint64(n)) //nolint:gosec // n is positive
	}
}

// RetryPolicy describes how a Client retries a failed read.
// There is no exponential growth and no jitter: the backoff is constant.
type RetryPolicy struct {
	// Attempts is the total number of attempts, including the first.
	Attempts int

	// Backoff is the wait between two consecutive attempts.
	Backoff time.Duration

	// Select chooses the transport identity for each attempt.
	Select Selector
}

// DefaultRetryPolicy returns four attempts, 500ms apart, with random
// identity selection.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: DefaultAttempts,
		Backoff:  DefaultBackoff,
		Select:   RandomSelector(),
	}
}

// normalize fills zero fields with defaults.
func (p RetryPolicy) normalize() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	if p.Select == nil {
		p.Select = RandomSelector()
	}
	return p
}

// wait blocks for the backoff interval or until ctx is done.
func (p RetryPolicy) wait(ctx context.Context) error {
	if p.Backoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
